package round

import "github.com/KirkDiggler/teamtrivia/internal/models"

// Define errors
const (
	ErrNilConfig     models.GameError = "config cannot be nil"
	ErrNilRoomRepo   models.GameError = "room repository cannot be nil"
	ErrNilRosterRepo models.GameError = "roster repository cannot be nil"
	ErrNilRoundRepo  models.GameError = "round repository cannot be nil"
	ErrNilEventRepo  models.GameError = "event repository cannot be nil"
	ErrNilAnswers    models.GameError = "answer aggregator cannot be nil"
	ErrNilScheduler  models.GameError = "scheduler cannot be nil"
	ErrNilBank       models.GameError = "question bank cannot be nil"
	ErrNilDiceRoller models.GameError = "dice roller cannot be nil"
	ErrNilClock      models.GameError = "clock cannot be nil"
)
