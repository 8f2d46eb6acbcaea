package round

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/teamtrivia/internal/services/round Service

import "context"

// Service drives one team's turn through
// Idle -> Rolling -> QuestionPosted -> Collecting -> Resolved -> Idle.
//
// Any member of the active team may request a roll or submit an answer.
// Only the arbiter commits: it rolls, posts the question, resolves and
// advances. Every operation re-reads the progress tag before writing and
// reports a lost race through Skipped rather than an error.
type Service interface {
	// RequestRoll records that the active team wants to roll
	RequestRoll(ctx context.Context, input *RequestRollInput) (*RequestRollOutput, error)

	// CommitRoll rolls the die for the current round and posts its question
	CommitRoll(ctx context.Context, input *CommitRollInput) (*CommitRollOutput, error)

	// PostQuestion fetches a question for a rolled round and shows it to the team
	PostQuestion(ctx context.Context, input *PostQuestionInput) (*PostQuestionOutput, error)

	// SubmitAnswer buffers an answer from a member of the active team
	SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error)

	// TryResolve scores the round once every member answered or the timer fired
	TryResolve(ctx context.Context, input *TryResolveInput) (*TryResolveOutput, error)
}
