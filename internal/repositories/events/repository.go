package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
)

func eventsPath(code string) string {
	return store.Join("rooms", code, "events")
}

// Config holds configuration for the events repository
type Config struct {
	Store store.Store
}

type repository struct {
	store store.Store
}

// New creates a new store-backed events repository
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

// AppendEvent adds an event to the log and returns its key
func (r *repository) AppendEvent(ctx context.Context, input *AppendEventInput) (string, error) {
	if input == nil || input.Code == "" || input.Event == nil {
		return "", errors.New("input, code and event cannot be empty")
	}

	data, err := json.Marshal(input.Event)
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}

	key, err := r.store.Append(ctx, eventsPath(input.Code), json.RawMessage(data))
	if err != nil {
		return "", fmt.Errorf("failed to append event: %w", err)
	}
	return key, nil
}

func decodeEvent(entry store.Entry) (*models.Event, error) {
	var event models.Event
	if err := json.Unmarshal(entry.Value, &event); err != nil {
		return nil, err
	}
	event.ID = entry.Key
	return &event, nil
}

// ListEvents returns the log in append order
func (r *repository) ListEvents(ctx context.Context, input *ListEventsInput) ([]*models.Event, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	entries, err := r.store.Entries(ctx, eventsPath(input.Code))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]*models.Event, 0, len(entries))
	for _, entry := range entries {
		event, err := decodeEvent(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to decode event %s: %w", entry.Key, err)
		}
		events = append(events, event)
	}
	return events, nil
}

// ClearEvents drops the log
func (r *repository) ClearEvents(ctx context.Context, input *ClearEventsInput) error {
	if input == nil || input.Code == "" {
		return errors.New("input and code cannot be empty")
	}

	if err := r.store.Remove(ctx, eventsPath(input.Code)); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	return nil
}

// FollowEvents replays the log, then delivers new events as they are appended
func (r *repository) FollowEvents(ctx context.Context, input *FollowEventsInput) (store.Subscription, error) {
	if input == nil || input.Code == "" || input.OnEvent == nil {
		return nil, errors.New("input, code and callback cannot be empty")
	}

	return r.store.SubscribeAppends(ctx, eventsPath(input.Code), func(entry store.Entry) {
		event, err := decodeEvent(entry)
		if err != nil {
			if input.OnDecodeError != nil {
				input.OnDecodeError(entry.Key, err)
			}
			return
		}
		input.OnEvent(event)
	})
}
