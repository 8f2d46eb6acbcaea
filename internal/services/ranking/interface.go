package ranking

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/teamtrivia/internal/services/ranking Service

import "context"

// Service computes standings from team positions
type Service interface {
	// GetStandings reads positions and the roster of a room and ranks them
	GetStandings(ctx context.Context, input *GetStandingsInput) (*GetStandingsOutput, error)
}
