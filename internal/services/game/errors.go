package game

import "github.com/KirkDiggler/teamtrivia/internal/models"

// Define errors
const (
	ErrNilConfig        models.GameError = "config cannot be nil"
	ErrNilDirectory     models.GameError = "directory service cannot be nil"
	ErrNilRoster        models.GameError = "roster service cannot be nil"
	ErrNilScheduler     models.GameError = "scheduler service cannot be nil"
	ErrNilRound         models.GameError = "round service cannot be nil"
	ErrNilDeadline      models.GameError = "deadline service cannot be nil"
	ErrNilRanking       models.GameError = "ranking service cannot be nil"
	ErrNilRoomRepo      models.GameError = "room repository cannot be nil"
	ErrNilRoundRepo     models.GameError = "round repository cannot be nil"
	ErrNilAnswersRepo   models.GameError = "answers repository cannot be nil"
	ErrNilEventRepo     models.GameError = "event repository cannot be nil"
	ErrNilClock         models.GameError = "clock cannot be nil"
	ErrNilUUIDGenerator models.GameError = "UUID generator cannot be nil"
)
