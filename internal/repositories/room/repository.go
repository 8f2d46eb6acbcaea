package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
)

const roomsPrefix = "rooms"

// Path returns the root path of a room
func Path(code string) string {
	return store.Join(roomsPrefix, code)
}

func metaPath(code string) string {
	return store.Join(roomsPrefix, code, "meta")
}

func statePath(code string) string {
	return store.Join(roomsPrefix, code, "state")
}

func positionsPath(code string) string {
	return store.Join(roomsPrefix, code, "positions")
}

// Config holds configuration for the room repository
type Config struct {
	Store store.Store
}

type repository struct {
	store store.Store
}

// New creates a new store-backed room repository
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

// CreateRoom writes the meta, initial state and positions of a new room
func (r *repository) CreateRoom(ctx context.Context, input *CreateRoomInput) error {
	if input == nil || input.Room == nil || input.State == nil {
		return errors.New("input, room and state cannot be nil")
	}

	meta, err := store.EncodeStruct(input.Room)
	if err != nil {
		return fmt.Errorf("failed to encode room: %w", err)
	}
	if err := r.store.Write(ctx, metaPath(input.Room.Code), meta); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	state, err := store.EncodeStruct(input.State)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := r.store.Write(ctx, statePath(input.Room.Code), state); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	return r.ResetPositions(ctx, &ResetPositionsInput{
		Code:  input.Room.Code,
		Teams: input.Teams,
	})
}

// Exists reports whether a room code is taken
func (r *repository) Exists(ctx context.Context, input *ExistsInput) (bool, error) {
	if input == nil || input.Code == "" {
		return false, errors.New("input and code cannot be empty")
	}

	_, err := r.store.ReadField(ctx, metaPath(input.Code), "code")
	if err != nil {
		if errors.Is(err, store.ErrAbsent) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check room: %w", err)
	}
	return true, nil
}

// GetRoom retrieves the immutable room record
func (r *repository) GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	fields, err := r.store.Read(ctx, metaPath(input.Code))
	if err != nil {
		if errors.Is(err, store.ErrAbsent) {
			return nil, models.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var room models.Room
	if err := fields.DecodeStruct(&room); err != nil {
		return nil, fmt.Errorf("failed to decode room: %w", err)
	}
	return &room, nil
}

// GetState performs a fresh read of the room state
func (r *repository) GetState(ctx context.Context, input *GetStateInput) (*models.RoomState, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	fields, err := r.store.Read(ctx, statePath(input.Code))
	if err != nil {
		if errors.Is(err, store.ErrAbsent) {
			return nil, models.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	return decodeState(fields)
}

func decodeState(fields store.Fields) (*models.RoomState, error) {
	var state models.RoomState
	if err := fields.DecodeStruct(&state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return &state, nil
}

// UpdateState merges the set fields of the update in one atomic write
func (r *repository) UpdateState(ctx context.Context, input *UpdateStateInput) error {
	if input == nil || input.Code == "" {
		return errors.New("input and code cannot be empty")
	}

	u := input.Update
	fields := make(map[string]any)
	if u.Phase != nil {
		fields["phase"] = *u.Phase
	}
	if u.Rotation != nil {
		fields["rotation"] = u.Rotation
	}
	if u.TurnIndex != nil {
		fields["turnIndex"] = *u.TurnIndex
	}
	if u.RoundNumber != nil {
		fields["roundNumber"] = *u.RoundNumber
	}
	if u.Progress != nil {
		fields["progress"] = *u.Progress
	}
	if u.StartTime != nil {
		fields["startTime"] = *u.StartTime
	}
	if u.Deadline != nil {
		fields["deadline"] = *u.Deadline
	}

	if err := r.store.Update(ctx, statePath(input.Code), fields); err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}
	return nil
}

// GetPositions returns the token position of every team
func (r *repository) GetPositions(ctx context.Context, input *GetPositionsInput) (map[models.TeamID]int, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	fields, err := r.store.Read(ctx, positionsPath(input.Code))
	if err != nil {
		if errors.Is(err, store.ErrAbsent) {
			return map[models.TeamID]int{}, nil
		}
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}

	positions := make(map[models.TeamID]int, len(fields))
	for team, raw := range fields {
		var position int
		if err := json.Unmarshal(raw, &position); err != nil {
			return nil, fmt.Errorf("failed to decode position of %s: %w", team, err)
		}
		positions[models.TeamID(team)] = position
	}
	return positions, nil
}

// SetPosition writes an absolute team position
func (r *repository) SetPosition(ctx context.Context, input *SetPositionInput) error {
	if input == nil || input.Code == "" || input.Team == "" {
		return errors.New("input, code and team cannot be empty")
	}

	if err := r.store.Update(ctx, positionsPath(input.Code), map[string]any{
		input.Team.String(): input.Position,
	}); err != nil {
		return fmt.Errorf("failed to set position: %w", err)
	}
	return nil
}

// ResetPositions sets every team back to zero
func (r *repository) ResetPositions(ctx context.Context, input *ResetPositionsInput) error {
	if input == nil || input.Code == "" {
		return errors.New("input and code cannot be empty")
	}

	fields := make(map[string]any, len(input.Teams))
	for _, team := range input.Teams {
		fields[team.String()] = 0
	}
	if err := r.store.Write(ctx, positionsPath(input.Code), fields); err != nil {
		return fmt.Errorf("failed to reset positions: %w", err)
	}
	return nil
}

// WatchState calls fn with the state on subscribe and on every change
func (r *repository) WatchState(ctx context.Context, input *WatchStateInput) (store.Subscription, error) {
	if input == nil || input.Code == "" || input.OnChange == nil {
		return nil, errors.New("input, code and callback cannot be empty")
	}

	return r.store.Subscribe(ctx, statePath(input.Code), func(fields store.Fields) {
		if len(fields) == 0 {
			return
		}
		state, err := decodeState(fields)
		if err != nil {
			return
		}
		input.OnChange(state)
	})
}
