package deadline

import (
	"context"
	"errors"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	"github.com/sirupsen/logrus"
)

type service struct {
	roomRepo roomRepo.Repository
	clock    clock.Clock
	duration time.Duration
	logger   logrus.FieldLogger
}

// New creates a new session clock
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.Duration <= 0 {
		return nil, errors.New("duration must be positive")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &service{
		roomRepo: cfg.RoomRepo,
		clock:    cfg.Clock,
		duration: cfg.Duration,
		logger:   logger.WithField("service", "deadline"),
	}, nil
}

// Compute returns the deadline of a game starting now
func (s *service) Compute() time.Time {
	return s.clock.Now().Add(s.duration)
}

// Remaining returns the time left before the deadline, never negative
func (s *service) Remaining(deadline time.Time) time.Duration {
	remaining := deadline.Sub(s.clock.Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// End moves an active room to Ended. Ending twice is a no-op.
func (s *service) End(ctx context.Context, input *EndInput) (*EndOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	state, err := s.roomRepo.GetState(ctx, &roomRepo.GetStateInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	if !state.Phase.IsActive() {
		return &EndOutput{Applied: false}, nil
	}

	if !input.Deadline.IsZero() && !input.Deadline.Equal(state.Deadline) {
		s.logger.WithFields(logrus.Fields{
			"room":     input.Code,
			"armed":    input.Deadline,
			"deadline": state.Deadline,
		}).Debug("Ignoring stale deadline timer")
		return &EndOutput{Applied: false}, nil
	}

	phase := models.PhaseEnded
	if err := s.roomRepo.UpdateState(ctx, &roomRepo.UpdateStateInput{
		Code:   input.Code,
		Update: roomRepo.StateUpdate{Phase: &phase},
	}); err != nil {
		return nil, err
	}

	s.logger.WithField("room", input.Code).Info("Game ended")

	return &EndOutput{Applied: true}, nil
}

// ForceEnd lets the arbiter pull the deadline to now and end the game
func (s *service) ForceEnd(ctx context.Context, input *ForceEndInput) (*EndOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	if room.ArbiterID != input.ActorID {
		return nil, models.ErrNotArbiter
	}

	state, err := s.roomRepo.GetState(ctx, &roomRepo.GetStateInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	if !state.Phase.IsActive() {
		return &EndOutput{Applied: false}, nil
	}

	now := s.clock.Now()
	if err := s.roomRepo.UpdateState(ctx, &roomRepo.UpdateStateInput{
		Code:   input.Code,
		Update: roomRepo.StateUpdate{Deadline: &now},
	}); err != nil {
		return nil, err
	}

	return s.End(ctx, &EndInput{Code: input.Code, Deadline: now})
}
