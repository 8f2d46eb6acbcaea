package room

import (
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/models"
)

type CreateRoomInput struct {
	Room  *models.Room
	State *models.RoomState
	Teams []models.TeamID
}

type ExistsInput struct {
	Code string
}

type GetRoomInput struct {
	Code string
}

type GetStateInput struct {
	Code string
}

// StateUpdate lists the state fields to change. Nil fields are left as they are.
type StateUpdate struct {
	Phase       *models.Phase
	Rotation    []models.TeamID
	TurnIndex   *int
	RoundNumber *int
	Progress    *models.Progress
	StartTime   *time.Time
	Deadline    *time.Time
}

type UpdateStateInput struct {
	Code   string
	Update StateUpdate
}

type GetPositionsInput struct {
	Code string
}

type SetPositionInput struct {
	Code     string
	Team     models.TeamID
	Position int
}

type ResetPositionsInput struct {
	Code  string
	Teams []models.TeamID
}

type WatchStateInput struct {
	Code     string
	OnChange func(*models.RoomState)
}
