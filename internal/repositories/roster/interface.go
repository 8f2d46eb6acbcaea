package roster

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/teamtrivia/internal/repositories/roster Repository

import (
	"context"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
)

// Repository defines the interface for participant persistence
type Repository interface {
	// SaveParticipant writes one participant record
	SaveParticipant(ctx context.Context, input *SaveParticipantInput) error

	// GetParticipant retrieves a participant by ID
	GetParticipant(ctx context.Context, input *GetParticipantInput) (*models.Participant, error)

	// SaveToken records the rejoin token issued to a participant
	SaveToken(ctx context.Context, input *SaveTokenInput) error

	// GetToken returns the rejoin token issued to a participant
	GetToken(ctx context.Context, input *GetTokenInput) (string, error)

	// ListParticipants returns the roster in join order
	ListParticipants(ctx context.Context, input *ListParticipantsInput) ([]*models.Participant, error)

	// WatchParticipants calls fn with the roster on subscribe and on every change
	WatchParticipants(ctx context.Context, input *WatchParticipantsInput) (store.Subscription, error)
}
