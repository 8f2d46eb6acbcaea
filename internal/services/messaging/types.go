package messaging

import (
	"github.com/KirkDiggler/teamtrivia/internal/dice"
	"github.com/KirkDiggler/teamtrivia/internal/models"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"

	// ToneEncouraging is an encouraging tone
	ToneEncouraging MessageTone = "encouraging"

	// ToneCelebration is a celebratory tone
	ToneCelebration MessageTone = "celebration"
)

// GetJoinMessageInput contains parameters for getting a join message
type GetJoinMessageInput struct {
	// ParticipantName is the name of the participant joining
	ParticipantName string

	// Phase is the phase of the room at join time
	Phase models.Phase

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetJoinMessageOutput contains the result of getting a join message
type GetJoinMessageOutput struct {
	Message string
	Tone    MessageTone
}

// GetJoinErrorMessageInput is the input for GetJoinErrorMessage
type GetJoinErrorMessageInput struct {
	ParticipantName string
	Err             error
}

// GetJoinErrorMessageOutput is the output for GetJoinErrorMessage
type GetJoinErrorMessageOutput struct {
	Title   string
	Message string
}

// GetDiceRollMessageInput contains the input for GetDiceRollMessage
type GetDiceRollMessageInput struct {
	Team     models.TeamID
	Dice     int
	Sides    int
	Position int
}

// GetDiceRollMessageOutput contains the output for GetDiceRollMessage
type GetDiceRollMessageOutput struct {
	Title   string
	Message string
}

// GetRoundResultMessageInput contains the input for GetRoundResultMessage
type GetRoundResultMessageInput struct {
	Team   models.TeamID
	Result models.RoundResolved
}

// GetRoundResultMessageOutput contains the output for GetRoundResultMessage
type GetRoundResultMessageOutput struct {
	Title   string
	Message string
	Tone    MessageTone
}

// GetGameEndedMessageInput contains the input for GetGameEndedMessage
type GetGameEndedMessageInput struct {
	Standings *models.Standings
}

// GetGameEndedMessageOutput contains the output for GetGameEndedMessage
type GetGameEndedMessageOutput struct {
	Message string
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	Err error

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetErrorMessageOutput contains the result of getting an error message
type GetErrorMessageOutput struct {
	Message string
	Tone    MessageTone
}

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Roller picks among the candidate messages
	Roller dice.Roller
}
