package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
)

func participantsPath(code string) string {
	return store.Join("rooms", code, "participants")
}

// tokensPath is never subscribed to, so rejoin tokens stay off the wire
func tokensPath(code string) string {
	return store.Join("rooms", code, "tokens")
}

// Config holds configuration for the roster repository
type Config struct {
	Store store.Store
}

type repository struct {
	store store.Store
}

// New creates a new store-backed roster repository
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

// SaveParticipant writes one participant record. Participants own their
// record, so there is a single writer per field.
func (r *repository) SaveParticipant(ctx context.Context, input *SaveParticipantInput) error {
	if input == nil || input.Code == "" || input.Participant == nil {
		return errors.New("input, code and participant cannot be empty")
	}

	if err := r.store.Update(ctx, participantsPath(input.Code), map[string]any{
		input.Participant.ID: input.Participant,
	}); err != nil {
		return fmt.Errorf("failed to save participant: %w", err)
	}
	return nil
}

// GetParticipant retrieves a participant by ID
func (r *repository) GetParticipant(ctx context.Context, input *GetParticipantInput) (*models.Participant, error) {
	if input == nil || input.Code == "" || input.ParticipantID == "" {
		return nil, errors.New("input, code and participant ID cannot be empty")
	}

	raw, err := r.store.ReadField(ctx, participantsPath(input.Code), input.ParticipantID)
	if err != nil {
		if errors.Is(err, store.ErrAbsent) {
			return nil, models.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	var participant models.Participant
	if err := json.Unmarshal(raw, &participant); err != nil {
		return nil, fmt.Errorf("failed to decode participant: %w", err)
	}
	return &participant, nil
}

// SaveToken records the rejoin token issued to a participant
func (r *repository) SaveToken(ctx context.Context, input *SaveTokenInput) error {
	if input == nil || input.Code == "" || input.ParticipantID == "" || input.Token == "" {
		return errors.New("input, code, participant ID and token cannot be empty")
	}

	if err := r.store.Update(ctx, tokensPath(input.Code), map[string]any{
		input.ParticipantID: input.Token,
	}); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// GetToken returns the rejoin token issued to a participant
func (r *repository) GetToken(ctx context.Context, input *GetTokenInput) (string, error) {
	if input == nil || input.Code == "" || input.ParticipantID == "" {
		return "", errors.New("input, code and participant ID cannot be empty")
	}

	raw, err := r.store.ReadField(ctx, tokensPath(input.Code), input.ParticipantID)
	if err != nil {
		if errors.Is(err, store.ErrAbsent) {
			return "", models.ErrParticipantNotFound
		}
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return "", fmt.Errorf("failed to decode token: %w", err)
	}
	return token, nil
}

// ListParticipants returns the roster in join order
func (r *repository) ListParticipants(ctx context.Context, input *ListParticipantsInput) ([]*models.Participant, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	fields, err := r.store.Read(ctx, participantsPath(input.Code))
	if err != nil {
		if errors.Is(err, store.ErrAbsent) {
			return []*models.Participant{}, nil
		}
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	return decodeParticipants(fields)
}

func decodeParticipants(fields store.Fields) ([]*models.Participant, error) {
	participants := make([]*models.Participant, 0, len(fields))
	for id, raw := range fields {
		var participant models.Participant
		if err := json.Unmarshal(raw, &participant); err != nil {
			return nil, fmt.Errorf("failed to decode participant %s: %w", id, err)
		}
		participants = append(participants, &participant)
	}

	sort.Slice(participants, func(i, j int) bool {
		if participants[i].JoinedAt.Equal(participants[j].JoinedAt) {
			return participants[i].ID < participants[j].ID
		}
		return participants[i].JoinedAt.Before(participants[j].JoinedAt)
	})
	return participants, nil
}

// WatchParticipants calls fn with the roster on subscribe and on every change
func (r *repository) WatchParticipants(ctx context.Context, input *WatchParticipantsInput) (store.Subscription, error) {
	if input == nil || input.Code == "" || input.OnChange == nil {
		return nil, errors.New("input, code and callback cannot be empty")
	}

	return r.store.Subscribe(ctx, participantsPath(input.Code), func(fields store.Fields) {
		participants, err := decodeParticipants(fields)
		if err != nil {
			return
		}
		input.OnChange(participants)
	})
}
