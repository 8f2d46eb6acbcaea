package scheduler

import (
	"github.com/KirkDiggler/teamtrivia/internal/dice"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	roundRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/round"
	"github.com/sirupsen/logrus"
)

// Config holds the dependencies of the scheduler
type Config struct {
	RoomRepo   roomRepo.Repository
	RoundRepo  roundRepo.Repository
	DiceRoller dice.Roller

	// PinnedTeam takes the first turn when it has members
	PinnedTeam models.TeamID

	Logger logrus.FieldLogger
}

type BuildRotationInput struct {
	// Teams are the candidate teams; empty ones are never entered
	Teams []models.Team
}

type BuildRotationOutput struct {
	Rotation []models.TeamID
}

type CurrentTeamInput struct {
	Code string
}

type CurrentTeamOutput struct {
	Team        models.TeamID
	TurnIndex   int
	RoundNumber int
	Progress    models.Progress
}

type AdvanceInput struct {
	Code    string
	ActorID string

	// FromRoundNumber is the resolved round the advance is attributed to
	FromRoundNumber int
}

type AdvanceOutput struct {
	Applied bool

	// Skipped explains why nothing was written
	Skipped error

	TurnIndex   int
	RoundNumber int
}
