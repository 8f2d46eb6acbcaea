package game

import (
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/common/uuid"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	answersRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/answers"
	eventRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/events"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	roundRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/deadline"
	"github.com/KirkDiggler/teamtrivia/internal/services/directory"
	"github.com/KirkDiggler/teamtrivia/internal/services/ranking"
	"github.com/KirkDiggler/teamtrivia/internal/services/roster"
	"github.com/KirkDiggler/teamtrivia/internal/services/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/scheduler"
	"github.com/sirupsen/logrus"
)

// Config holds configuration for the game service
type Config struct {
	Directory directory.Service
	Roster    roster.Service
	Scheduler scheduler.Service
	Round     round.Service
	Deadline  deadline.Service
	Ranking   ranking.Service

	RoomRepo    roomRepo.Repository
	RoundRepo   roundRepo.Repository
	AnswersRepo answersRepo.Repository
	EventRepo   eventRepo.Repository

	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Rules         models.Rules
	Logger        logrus.FieldLogger
}

// CreateRoomInput defines the input for creating a room
type CreateRoomInput struct {
	// Name is the display name of the room
	Name string

	// ArbiterName is the display name of the creating participant
	ArbiterName string
}

// CreateRoomOutput defines the output for creating a room
type CreateRoomOutput struct {
	Room        *models.Room
	Participant *models.Participant

	// Token is the creator's rejoin token
	Token string
}

// JoinRoomInput defines the input for joining a room
type JoinRoomInput struct {
	Code string
	Name string

	// ParticipantID identifies a reconnecting participant (optional)
	ParticipantID string

	// Token is required with ParticipantID
	Token string
}

// JoinRoomOutput defines the output for joining a room
type JoinRoomOutput struct {
	Room        *models.Room
	Participant *models.Participant
	Spectator   bool
	Rejoined    bool

	// Token is returned to the joining client only
	Token string
}

type ChooseTeamInput struct {
	Code          string
	ParticipantID string
	Team          models.TeamID
}

type ChooseTeamOutput struct {
	Applied bool
}

// StartGameInput defines the input for starting a game
type StartGameInput struct {
	Code    string
	ActorID string
}

// StartGameOutput defines the output for starting a game
type StartGameOutput struct {
	Rotation  []models.TeamID
	StartTime time.Time
	Deadline  time.Time
}

type RollDiceInput struct {
	Code          string
	ParticipantID string
}

type RollDiceOutput struct {
	Applied bool

	// Skipped explains a dropped request
	Skipped error
}

type SubmitAnswerInput struct {
	Code          string
	ParticipantID string

	// Choice is a choice key or lettered choice; empty means no answer
	Choice string
}

type SubmitAnswerOutput struct {
	Applied bool
	Skipped error
}

type ForceEndInput struct {
	Code    string
	ActorID string
}

type ForceEndOutput struct {
	Applied bool
}

type GetStandingsInput struct {
	Code string
}

type GetStandingsOutput struct {
	Standings *models.Standings
}
