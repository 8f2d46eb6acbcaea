package answers

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/teamtrivia/internal/services/answers Service

import "context"

// Service buffers a team's answers and decides when the round is complete
type Service interface {
	// Buffer records one participant's answer for a round
	Buffer(ctx context.Context, input *BufferInput) error

	// Collect reads the buffer for a round and reports completeness
	Collect(ctx context.Context, input *CollectInput) (*CollectOutput, error)

	// Score applies the scoring rule to collected answers
	Score(input *ScoreInput) *ScoreOutput

	// Clear empties the buffer
	Clear(ctx context.Context, input *ClearInput) error
}
