package scheduler

import "github.com/KirkDiggler/teamtrivia/internal/models"

// Define errors
const (
	ErrNilConfig     models.GameError = "config cannot be nil"
	ErrNilRoomRepo   models.GameError = "room repository cannot be nil"
	ErrNilRoundRepo  models.GameError = "round repository cannot be nil"
	ErrNilDiceRoller models.GameError = "dice roller cannot be nil"
)
