package round

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/teamtrivia/internal/repositories/round Repository

import (
	"context"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
)

// Repository defines the interface for live round persistence
type Repository interface {
	// SaveRound replaces the round record
	SaveRound(ctx context.Context, input *SaveRoundInput) error

	// GetRound retrieves the round record
	GetRound(ctx context.Context, input *GetRoundInput) (*models.Round, error)

	// SaveRollRequest records a roll request
	SaveRollRequest(ctx context.Context, input *SaveRollRequestInput) error

	// GetRollRequest retrieves the pending roll request
	GetRollRequest(ctx context.Context, input *GetRollRequestInput) (*models.RollRequest, error)

	// SaveAnswerKey stores the withheld correct choice
	SaveAnswerKey(ctx context.Context, input *SaveAnswerKeyInput) error

	// GetAnswerKey retrieves the withheld correct choice
	GetAnswerKey(ctx context.Context, input *GetAnswerKeyInput) (*models.AnswerKey, error)

	// ClearRound removes the round record, roll request and answer key
	ClearRound(ctx context.Context, input *ClearRoundInput) error

	// WatchRollRequests calls fn whenever a roll request is written
	WatchRollRequests(ctx context.Context, input *WatchRollRequestsInput) (store.Subscription, error)
}
