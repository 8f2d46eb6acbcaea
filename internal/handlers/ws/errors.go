package ws

import "github.com/KirkDiggler/teamtrivia/internal/models"

// Define errors
const (
	ErrNilConfig             models.GameError = "config cannot be nil"
	ErrNilGameService        models.GameError = "game service cannot be nil"
	ErrNilParticipantService models.GameError = "participant service cannot be nil"
	ErrNilMessaging          models.GameError = "messaging service cannot be nil"

	ErrBadMessage    models.GameError = "message could not be read"
	ErrUnknownIntent models.GameError = "unknown intent"
	ErrRateLimited   models.GameError = "too many messages"
	ErrAlreadyJoined models.GameError = "connection already joined a room"
	ErrReplaced      models.GameError = "joined from another connection"
	ErrNotJoined     models.GameError = "connection has not joined a room"
)
