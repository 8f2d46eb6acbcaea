package roster

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/teamtrivia/internal/services/roster Service

import "context"

// Service tracks who is in a room and which team they play for
type Service interface {
	// Join adds a participant to a room
	Join(ctx context.Context, input *JoinInput) (*JoinOutput, error)

	// Rejoin restores a participant who presents their rejoin token
	Rejoin(ctx context.Context, input *RejoinInput) (*JoinOutput, error)

	// ChooseTeam assigns a participant to a team while the room is forming
	ChooseTeam(ctx context.Context, input *ChooseTeamInput) (*ChooseTeamOutput, error)

	// ListTeams returns the roster and the teams that have members
	ListTeams(ctx context.Context, input *ListTeamsInput) (*ListTeamsOutput, error)
}
