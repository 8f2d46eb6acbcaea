package directory

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/teamtrivia/internal/services/directory Service

import "context"

// Service maps shareable room codes to rooms
type Service interface {
	// CreateRoom allocates an unused code and writes the room in Forming phase
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// ResolveRoom looks up a room by code
	ResolveRoom(ctx context.Context, input *ResolveRoomInput) (*ResolveRoomOutput, error)
}
