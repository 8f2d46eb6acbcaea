package messaging

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetJoinMessage returns a message for when a participant joins a room
	GetJoinMessage(ctx context.Context, input *GetJoinMessageInput) (*GetJoinMessageOutput, error)

	// GetJoinErrorMessage returns a message for when a participant fails to join a room
	GetJoinErrorMessage(ctx context.Context, input *GetJoinErrorMessageInput) (*GetJoinErrorMessageOutput, error)

	// GetDiceRollMessage returns the announcement for a committed roll
	GetDiceRollMessage(ctx context.Context, input *GetDiceRollMessageInput) (*GetDiceRollMessageOutput, error)

	// GetRoundResultMessage returns the announcement for a resolved round
	GetRoundResultMessage(ctx context.Context, input *GetRoundResultMessageInput) (*GetRoundResultMessageOutput, error)

	// GetGameEndedMessage returns the announcement for the final standings
	GetGameEndedMessage(ctx context.Context, input *GetGameEndedMessageInput) (*GetGameEndedMessageOutput, error)

	// GetErrorMessage returns a user-friendly error message
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
