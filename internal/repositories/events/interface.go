package events

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/teamtrivia/internal/repositories/events Repository

import (
	"context"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
)

// Repository defines the interface for the room event log
type Repository interface {
	// AppendEvent adds an event to the log and returns its key
	AppendEvent(ctx context.Context, input *AppendEventInput) (string, error)

	// ListEvents returns the log in append order
	ListEvents(ctx context.Context, input *ListEventsInput) ([]*models.Event, error)

	// ClearEvents drops the log
	ClearEvents(ctx context.Context, input *ClearEventsInput) error

	// FollowEvents replays the log, then delivers new events as they are appended
	FollowEvents(ctx context.Context, input *FollowEventsInput) (store.Subscription, error)
}
