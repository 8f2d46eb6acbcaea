package participant

//go:generate mockgen -package=mocks -destination=mocks/mock_notifier.go github.com/KirkDiggler/teamtrivia/internal/services/participant Notifier
//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/teamtrivia/internal/services/participant Service

import "context"

// Service runs the drivers that mirror a room to its participants and move
// it through its rounds
type Service interface {
	// Run mirrors the room to one participant and arms its deadline timer
	// until ctx is cancelled
	Run(ctx context.Context, input *RunInput) error

	// Arbitrate arms the room's round timers and commits the arbiter's
	// transitions until ctx is cancelled
	Arbitrate(ctx context.Context, input *ArbitrateInput) error
}

// Notifier receives the outbound notifications of one participant. Calls
// are made from the driver's goroutine, one at a time.
type Notifier interface {
	RosterChanged(ctx context.Context, n *RosterChanged)
	PhaseChanged(ctx context.Context, n *PhaseChanged)
	TurnChanged(ctx context.Context, n *TurnChanged)
	DiceRolled(ctx context.Context, n *DiceRolled)

	// QuestionPosted is only delivered to members of the answering team
	QuestionPosted(ctx context.Context, n *QuestionPosted)

	RoundResolved(ctx context.Context, n *RoundResolved)
	GameEnded(ctx context.Context, n *GameEnded)
	RankingReady(ctx context.Context, n *RankingReady)
}
