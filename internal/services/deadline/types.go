package deadline

import (
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	"github.com/sirupsen/logrus"
)

// Config holds the dependencies of the session clock
type Config struct {
	RoomRepo roomRepo.Repository
	Clock    clock.Clock

	// Duration is how long a game lasts
	Duration time.Duration

	Logger logrus.FieldLogger
}

type EndInput struct {
	Code string

	// Deadline is the deadline the caller's timer was armed for. A zero
	// value ends the game regardless of the stored deadline.
	Deadline time.Time
}

type EndOutput struct {
	// Applied is false when the room was not active or the deadline moved
	Applied bool
}

type ForceEndInput struct {
	Code    string
	ActorID string
}
