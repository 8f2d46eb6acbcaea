package ranking

import "github.com/KirkDiggler/teamtrivia/internal/models"

// Define errors
const (
	ErrNilConfig     models.GameError = "config cannot be nil"
	ErrNilRoomRepo   models.GameError = "room repository cannot be nil"
	ErrNilRosterRepo models.GameError = "roster repository cannot be nil"
)
