package answers

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/teamtrivia/internal/repositories/answers Repository

import (
	"context"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
)

// Repository defines the interface for the answer buffer
type Repository interface {
	// SaveAnswer writes one participant's answer, replacing any earlier one
	SaveAnswer(ctx context.Context, input *SaveAnswerInput) error

	// ListAnswers returns the buffered answers for a round keyed by participant
	ListAnswers(ctx context.Context, input *ListAnswersInput) (map[string]*models.Answer, error)

	// ClearAnswers empties the buffer
	ClearAnswers(ctx context.Context, input *ClearAnswersInput) error

	// WatchAnswers calls fn with the buffer on subscribe and on every change
	WatchAnswers(ctx context.Context, input *WatchAnswersInput) (store.Subscription, error)
}
