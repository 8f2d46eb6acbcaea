package answers

import "github.com/KirkDiggler/teamtrivia/internal/models"

// Define errors
const (
	ErrNilConfig      models.GameError = "config cannot be nil"
	ErrNilAnswersRepo models.GameError = "answers repository cannot be nil"
)
