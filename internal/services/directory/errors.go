package directory

import "github.com/KirkDiggler/teamtrivia/internal/models"

// Define errors
const (
	ErrNilConfig     models.GameError = "config cannot be nil"
	ErrNilRoomRepo   models.GameError = "room repository cannot be nil"
	ErrNilDiceRoller models.GameError = "dice roller cannot be nil"
	ErrNilClock      models.GameError = "clock cannot be nil"
	ErrCodeExhausted models.GameError = "could not find an unused room code"
)
