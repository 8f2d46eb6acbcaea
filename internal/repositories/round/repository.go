package round

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
)

const rollField = "roll"

var (
	// ErrRoundNotFound is returned when no round record exists
	ErrRoundNotFound = errors.New("round not found")

	// ErrRequestNotFound is returned when no roll request exists
	ErrRequestNotFound = errors.New("roll request not found")

	// ErrKeyNotFound is returned when no answer key exists
	ErrKeyNotFound = errors.New("answer key not found")
)

func roundPath(code string) string {
	return store.Join("rooms", code, "round")
}

func requestsPath(code string) string {
	return store.Join("rooms", code, "requests")
}

func secretPath(code string) string {
	return store.Join("rooms", code, "secret")
}

// Config holds configuration for the round repository
type Config struct {
	Store store.Store
}

type repository struct {
	store store.Store
}

// New creates a new store-backed round repository
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

// SaveRound replaces the round record
func (r *repository) SaveRound(ctx context.Context, input *SaveRoundInput) error {
	if input == nil || input.Code == "" || input.Round == nil {
		return errors.New("input, code and round cannot be empty")
	}

	fields, err := store.EncodeStruct(input.Round)
	if err != nil {
		return fmt.Errorf("failed to encode round: %w", err)
	}
	if err := r.store.Write(ctx, roundPath(input.Code), fields); err != nil {
		return fmt.Errorf("failed to save round: %w", err)
	}
	return nil
}

// GetRound retrieves the round record
func (r *repository) GetRound(ctx context.Context, input *GetRoundInput) (*models.Round, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	fields, err := r.store.Read(ctx, roundPath(input.Code))
	if err != nil {
		if errors.Is(err, store.ErrAbsent) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}

	var round models.Round
	if err := fields.DecodeStruct(&round); err != nil {
		return nil, fmt.Errorf("failed to decode round: %w", err)
	}
	return &round, nil
}

// SaveRollRequest records a roll request. Requests for the same round
// overwrite each other, which makes duplicates harmless.
func (r *repository) SaveRollRequest(ctx context.Context, input *SaveRollRequestInput) error {
	if input == nil || input.Code == "" || input.Request == nil {
		return errors.New("input, code and request cannot be empty")
	}

	if err := r.store.Update(ctx, requestsPath(input.Code), map[string]any{
		rollField: input.Request,
	}); err != nil {
		return fmt.Errorf("failed to save roll request: %w", err)
	}
	return nil
}

// GetRollRequest retrieves the pending roll request
func (r *repository) GetRollRequest(ctx context.Context, input *GetRollRequestInput) (*models.RollRequest, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	fields, err := r.store.Read(ctx, requestsPath(input.Code))
	if err != nil {
		if errors.Is(err, store.ErrAbsent) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get roll request: %w", err)
	}

	return decodeRequest(fields)
}

func decodeRequest(fields store.Fields) (*models.RollRequest, error) {
	if !fields.Has(rollField) {
		return nil, ErrRequestNotFound
	}
	var request models.RollRequest
	if err := fields.Decode(rollField, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// SaveAnswerKey stores the withheld correct choice
func (r *repository) SaveAnswerKey(ctx context.Context, input *SaveAnswerKeyInput) error {
	if input == nil || input.Code == "" || input.Key == nil {
		return errors.New("input, code and key cannot be empty")
	}

	fields, err := store.EncodeStruct(input.Key)
	if err != nil {
		return fmt.Errorf("failed to encode answer key: %w", err)
	}
	if err := r.store.Write(ctx, secretPath(input.Code), fields); err != nil {
		return fmt.Errorf("failed to save answer key: %w", err)
	}
	return nil
}

// GetAnswerKey retrieves the withheld correct choice
func (r *repository) GetAnswerKey(ctx context.Context, input *GetAnswerKeyInput) (*models.AnswerKey, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	fields, err := r.store.Read(ctx, secretPath(input.Code))
	if err != nil {
		if errors.Is(err, store.ErrAbsent) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get answer key: %w", err)
	}

	var key models.AnswerKey
	if err := fields.DecodeStruct(&key); err != nil {
		return nil, fmt.Errorf("failed to decode answer key: %w", err)
	}
	return &key, nil
}

// ClearRound removes the round record, roll request and answer key
func (r *repository) ClearRound(ctx context.Context, input *ClearRoundInput) error {
	if input == nil || input.Code == "" {
		return errors.New("input and code cannot be empty")
	}

	for _, path := range []string{roundPath(input.Code), requestsPath(input.Code), secretPath(input.Code)} {
		if err := r.store.Remove(ctx, path); err != nil {
			return fmt.Errorf("failed to clear round: %w", err)
		}
	}
	return nil
}

// WatchRollRequests calls fn whenever a roll request is present after a change
func (r *repository) WatchRollRequests(ctx context.Context, input *WatchRollRequestsInput) (store.Subscription, error) {
	if input == nil || input.Code == "" || input.OnChange == nil {
		return nil, errors.New("input, code and callback cannot be empty")
	}

	return r.store.Subscribe(ctx, requestsPath(input.Code), func(fields store.Fields) {
		request, err := decodeRequest(fields)
		if err != nil {
			return
		}
		input.OnChange(request)
	})
}
