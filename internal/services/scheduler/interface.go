package scheduler

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/teamtrivia/internal/services/scheduler Service

import "context"

// Service owns the team rotation of a room
type Service interface {
	// BuildRotation orders the non-empty teams for a new game
	BuildRotation(ctx context.Context, input *BuildRotationInput) (*BuildRotationOutput, error)

	// CurrentTeam returns the team whose turn it is
	CurrentTeam(ctx context.Context, input *CurrentTeamInput) (*CurrentTeamOutput, error)

	// Advance moves the rotation on after a resolved round
	Advance(ctx context.Context, input *AdvanceInput) (*AdvanceOutput, error)
}
