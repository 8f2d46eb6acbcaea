package deadline

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/teamtrivia/internal/services/deadline Service

import (
	"context"
	"time"
)

// Service ends games when their wall-clock deadline passes
type Service interface {
	// Compute returns the deadline of a game starting now
	Compute() time.Time

	// End moves an active room to Ended. Any participant may call it.
	End(ctx context.Context, input *EndInput) (*EndOutput, error)

	// ForceEnd lets the arbiter pull the deadline to now and end the game
	ForceEnd(ctx context.Context, input *ForceEndInput) (*EndOutput, error)

	// Remaining returns the time left before the deadline, never negative
	Remaining(deadline time.Time) time.Duration
}
