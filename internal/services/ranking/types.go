package ranking

import (
	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
)

// Config holds the dependencies of the ranker
type Config struct {
	RoomRepo   roomRepo.Repository
	RosterRepo rosterRepo.Repository

	// Teams is the enumeration ties are ordered by
	Teams []models.TeamID
}

type GetStandingsInput struct {
	Code string
}

type GetStandingsOutput struct {
	Standings *models.Standings
}
