package answers

import (
	"context"
	"errors"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	answersRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/answers"
	"github.com/sirupsen/logrus"
)

// Scoring constants
const (
	// AllCorrectBonus is awarded when every member answered correctly
	AllCorrectBonus = 2

	// PenaltyPerMember is lost per member when fewer than half were correct
	PenaltyPerMember = 2
)

type service struct {
	answersRepo answersRepo.Repository
	logger      logrus.FieldLogger
}

// New creates a new answer aggregator
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.AnswersRepo == nil {
		return nil, ErrNilAnswersRepo
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &service{
		answersRepo: cfg.AnswersRepo,
		logger:      logger.WithField("service", "answers"),
	}, nil
}

// Buffer records one participant's answer for a round
func (s *service) Buffer(ctx context.Context, input *BufferInput) error {
	if input == nil || input.Code == "" || input.Answer == nil {
		return errors.New("input, code and answer cannot be empty")
	}

	answer := *input.Answer
	answer.Choice = models.NormalizeChoice(answer.Choice)

	return s.answersRepo.SaveAnswer(ctx, &answersRepo.SaveAnswerInput{
		Code:   input.Code,
		Answer: &answer,
	})
}

// Collect reads the buffer for a round and reports completeness
func (s *service) Collect(ctx context.Context, input *CollectInput) (*CollectOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	buffered, err := s.answersRepo.ListAnswers(ctx, &answersRepo.ListAnswersInput{
		Code:        input.Code,
		RoundNumber: input.RoundNumber,
	})
	if err != nil {
		return nil, err
	}

	return Completeness(input.MemberIDs, buffered), nil
}

// Completeness keeps the members' answers and reports whether all of them answered
func Completeness(memberIDs []string, buffered map[string]*models.Answer) *CollectOutput {
	answers := make(map[string]*models.Answer, len(memberIDs))
	for _, id := range memberIDs {
		if answer, ok := buffered[id]; ok {
			answers[id] = answer
		}
	}

	return &CollectOutput{
		Answers:  answers,
		Complete: len(memberIDs) > 0 && len(answers) == len(memberIDs),
	}
}

// Score applies the scoring rule. Members without an answer count as incorrect.
func (s *service) Score(input *ScoreInput) *ScoreOutput {
	n := len(input.MemberIDs)
	key := models.NormalizeChoice(input.Key)

	correct := 0
	for _, id := range input.MemberIDs {
		answer, ok := input.Answers[id]
		if ok && answer.Choice != "" && models.NormalizeChoice(answer.Choice) == key {
			correct++
		}
	}

	delta := 0
	switch {
	case n == 0:
	case correct == n:
		delta = AllCorrectBonus
	case 2*correct < n:
		delta = -PenaltyPerMember * n
	}

	position := input.Position + delta
	if position < 0 {
		position = 0
	}

	return &ScoreOutput{
		Correct:  correct,
		TeamSize: n,
		Delta:    delta,
		Position: position,
	}
}

// Clear empties the buffer
func (s *service) Clear(ctx context.Context, input *ClearInput) error {
	if input == nil || input.Code == "" {
		return errors.New("input and code cannot be empty")
	}

	return s.answersRepo.ClearAnswers(ctx, &answersRepo.ClearAnswersInput{Code: input.Code})
}
