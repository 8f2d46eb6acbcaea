package directory

import (
	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/dice"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	"github.com/sirupsen/logrus"
)

// Config holds the dependencies of the directory service
type Config struct {
	RoomRepo   roomRepo.Repository
	DiceRoller dice.Roller
	Clock      clock.Clock
	Rules      models.Rules

	// MaxAttempts bounds code generation retries
	MaxAttempts int

	Logger logrus.FieldLogger
}

type CreateRoomInput struct {
	// ArbiterID is the creating participant
	ArbiterID string
	Name      string
}

type CreateRoomOutput struct {
	Room *models.Room
}

type ResolveRoomInput struct {
	Code string
}

type ResolveRoomOutput struct {
	Room *models.Room

	// Path is the room's root in the store
	Path string
}
