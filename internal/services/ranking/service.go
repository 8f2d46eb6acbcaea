package ranking

import (
	"context"
	"errors"
	"sort"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
)

type service struct {
	roomRepo   roomRepo.Repository
	rosterRepo rosterRepo.Repository
	teams      []models.TeamID
}

// New creates a new ranker
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}

	if cfg.RosterRepo == nil {
		return nil, ErrNilRosterRepo
	}

	teams := cfg.Teams
	if len(teams) == 0 {
		teams = models.DefaultTeams
	}

	return &service{
		roomRepo:   cfg.RoomRepo,
		rosterRepo: cfg.RosterRepo,
		teams:      teams,
	}, nil
}

// GetStandings reads positions and the roster of a room and ranks them
func (s *service) GetStandings(ctx context.Context, input *GetStandingsInput) (*GetStandingsOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	positions, err := s.roomRepo.GetPositions(ctx, &roomRepo.GetPositionsInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	participants, err := s.rosterRepo.ListParticipants(ctx, &rosterRepo.ListParticipantsInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	return &GetStandingsOutput{
		Standings: Rank(s.teams, positions, participants),
	}, nil
}

// Rank orders teams with members by position, highest first. Ties are not
// broken: tied teams keep their enumeration order and still get distinct,
// sequential ranks. Participants inherit their team's position; those
// without a team are left out.
func Rank(enumeration []models.TeamID, positions map[models.TeamID]int, participants []*models.Participant) *models.Standings {
	members := make(map[models.TeamID][]*models.Participant)
	for _, p := range participants {
		if p.HasTeam() {
			members[p.Team] = append(members[p.Team], p)
		}
	}

	teams := make([]models.TeamStanding, 0, len(members))
	for _, id := range enumeration {
		if len(members[id]) == 0 {
			continue
		}
		ids := make([]string, 0, len(members[id]))
		for _, p := range members[id] {
			ids = append(ids, p.ID)
		}
		teams = append(teams, models.TeamStanding{
			Team:      id,
			Position:  positions[id],
			MemberIDs: ids,
		})
	}

	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Position > teams[j].Position
	})

	standings := &models.Standings{
		Teams:        teams,
		Participants: []models.ParticipantStanding{},
	}
	for i := range standings.Teams {
		standings.Teams[i].Rank = i + 1
		for _, p := range members[standings.Teams[i].Team] {
			standings.Participants = append(standings.Participants, models.ParticipantStanding{
				ParticipantID: p.ID,
				Name:          p.Name,
				Team:          p.Team,
				Position:      standings.Teams[i].Position,
			})
		}
	}
	for i := range standings.Participants {
		standings.Participants[i].Rank = i + 1
	}

	return standings
}
