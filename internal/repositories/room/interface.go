package room

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/teamtrivia/internal/repositories/room Repository

import (
	"context"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
)

// Repository defines the interface for room persistence
type Repository interface {
	// CreateRoom writes the meta, initial state and positions of a new room
	CreateRoom(ctx context.Context, input *CreateRoomInput) error

	// Exists reports whether a room code is taken
	Exists(ctx context.Context, input *ExistsInput) (bool, error)

	// GetRoom retrieves the immutable room record
	GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error)

	// GetState performs a fresh read of the room state
	GetState(ctx context.Context, input *GetStateInput) (*models.RoomState, error)

	// UpdateState merges the set fields of the update in one atomic write
	UpdateState(ctx context.Context, input *UpdateStateInput) error

	// GetPositions returns the token position of every team
	GetPositions(ctx context.Context, input *GetPositionsInput) (map[models.TeamID]int, error)

	// SetPosition writes an absolute team position
	SetPosition(ctx context.Context, input *SetPositionInput) error

	// ResetPositions sets every team back to zero
	ResetPositions(ctx context.Context, input *ResetPositionsInput) error

	// WatchState calls fn with the state on subscribe and on every change
	WatchState(ctx context.Context, input *WatchStateInput) (store.Subscription, error)
}
