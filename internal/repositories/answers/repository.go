package answers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
)

func answersPath(code string) string {
	return store.Join("rooms", code, "answers")
}

// Config holds configuration for the answers repository
type Config struct {
	Store store.Store
}

type repository struct {
	store store.Store
}

// New creates a new store-backed answers repository
func New(cfg *Config) (*repository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Store == nil {
		return nil, errors.New("store cannot be nil")
	}

	return &repository{
		store: cfg.Store,
	}, nil
}

// SaveAnswer writes one participant's answer, replacing any earlier one
func (r *repository) SaveAnswer(ctx context.Context, input *SaveAnswerInput) error {
	if input == nil || input.Code == "" || input.Answer == nil || input.Answer.ParticipantID == "" {
		return errors.New("input, code and answer cannot be empty")
	}

	if err := r.store.Update(ctx, answersPath(input.Code), map[string]any{
		input.Answer.ParticipantID: input.Answer,
	}); err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

// ListAnswers returns the buffered answers for a round keyed by participant
func (r *repository) ListAnswers(ctx context.Context, input *ListAnswersInput) (map[string]*models.Answer, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	fields, err := r.store.Read(ctx, answersPath(input.Code))
	if err != nil {
		if errors.Is(err, store.ErrAbsent) {
			return map[string]*models.Answer{}, nil
		}
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}

	all, err := decodeAnswers(fields)
	if err != nil {
		return nil, err
	}

	answers := make(map[string]*models.Answer, len(all))
	for id, answer := range all {
		if answer.RoundNumber == input.RoundNumber {
			answers[id] = answer
		}
	}
	return answers, nil
}

func decodeAnswers(fields store.Fields) (map[string]*models.Answer, error) {
	answers := make(map[string]*models.Answer, len(fields))
	for id, raw := range fields {
		var answer models.Answer
		if err := json.Unmarshal(raw, &answer); err != nil {
			return nil, fmt.Errorf("failed to decode answer of %s: %w", id, err)
		}
		answers[id] = &answer
	}
	return answers, nil
}

// ClearAnswers empties the buffer
func (r *repository) ClearAnswers(ctx context.Context, input *ClearAnswersInput) error {
	if input == nil || input.Code == "" {
		return errors.New("input and code cannot be empty")
	}

	if err := r.store.Remove(ctx, answersPath(input.Code)); err != nil {
		return fmt.Errorf("failed to clear answers: %w", err)
	}
	return nil
}

// WatchAnswers calls fn with the buffer on subscribe and on every change
func (r *repository) WatchAnswers(ctx context.Context, input *WatchAnswersInput) (store.Subscription, error) {
	if input == nil || input.Code == "" || input.OnChange == nil {
		return nil, errors.New("input, code and callback cannot be empty")
	}

	return r.store.Subscribe(ctx, answersPath(input.Code), func(fields store.Fields) {
		answers, err := decodeAnswers(fields)
		if err != nil {
			return
		}
		input.OnChange(answers)
	})
}
