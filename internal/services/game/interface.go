package game

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/teamtrivia/internal/services/game Service

import "context"

// Service defines the inbound intents of a participant
type Service interface {
	// CreateRoom opens a new room and joins its creator as the arbiter
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// JoinRoom adds a participant to a room by its shareable code
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)

	// ChooseTeam assigns a participant to a team while the room is forming
	ChooseTeam(ctx context.Context, input *ChooseTeamInput) (*ChooseTeamOutput, error)

	// StartGame builds the rotation and starts the clock
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// RollDice asks to roll for the participant's team
	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)

	// SubmitAnswer records the participant's answer to the posted question
	SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error)

	// ForceEnd lets the arbiter end the game early
	ForceEnd(ctx context.Context, input *ForceEndInput) (*ForceEndOutput, error)

	// GetStandings returns the current ranking of a room
	GetStandings(ctx context.Context, input *GetStandingsInput) (*GetStandingsOutput, error)
}
