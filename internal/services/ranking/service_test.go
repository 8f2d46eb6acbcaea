package ranking

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
	"github.com/KirkDiggler/teamtrivia/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrdersByPositionAndKeepsEnumerationForTies(t *testing.T) {
	participants := []*models.Participant{
		{ID: "a", Name: "Ada", Team: "group1"},
		{ID: "b", Name: "Bo", Team: "group2"},
		{ID: "c", Name: "Cy", Team: "group3"},
		{ID: "d", Name: "Di", Team: "group2"},
		{ID: "e", Name: "Eve"},
	}
	positions := map[models.TeamID]int{"group1": 4, "group2": 9, "group3": 4, "group4": 12}

	standings := Rank(models.DefaultTeams, positions, participants)

	require.Len(t, standings.Teams, 3)
	assert.Equal(t, models.TeamID("group2"), standings.Teams[0].Team)
	assert.Equal(t, 1, standings.Teams[0].Rank)
	assert.Equal(t, []string{"b", "d"}, standings.Teams[0].MemberIDs)
	assert.Equal(t, models.TeamID("group1"), standings.Teams[1].Team)
	assert.Equal(t, 2, standings.Teams[1].Rank)
	assert.Equal(t, models.TeamID("group3"), standings.Teams[2].Team)
	assert.Equal(t, 3, standings.Teams[2].Rank)

	require.Len(t, standings.Participants, 4)
	var ids []string
	for _, p := range standings.Participants {
		ids = append(ids, p.ParticipantID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
	assert.Equal(t, 9, standings.Participants[1].Position)
	assert.Equal(t, 4, standings.Participants[3].Rank)
}

func TestRankWithoutTeams(t *testing.T) {
	standings := Rank(models.DefaultTeams, map[models.TeamID]int{}, nil)
	assert.Empty(t, standings.Teams)
	assert.Empty(t, standings.Participants)
}

func TestGetStandingsReadsRoom(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	rooms, err := roomRepo.New(&roomRepo.Config{Store: st})
	require.NoError(t, err)
	roster, err := rosterRepo.New(&rosterRepo.Config{Store: st})
	require.NoError(t, err)

	require.NoError(t, rooms.ResetPositions(ctx, &roomRepo.ResetPositionsInput{Code: "ABCDE", Teams: models.DefaultTeams}))
	require.NoError(t, rooms.SetPosition(ctx, &roomRepo.SetPositionInput{Code: "ABCDE", Team: "group5", Position: 6}))
	now := time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	require.NoError(t, roster.SaveParticipant(ctx, &rosterRepo.SaveParticipantInput{
		Code: "ABCDE", Participant: &models.Participant{ID: "a", Team: "group1", JoinedAt: now},
	}))
	require.NoError(t, roster.SaveParticipant(ctx, &rosterRepo.SaveParticipantInput{
		Code: "ABCDE", Participant: &models.Participant{ID: "b", Team: "group5", JoinedAt: now.Add(time.Second)},
	}))

	svc, err := New(&Config{RoomRepo: rooms, RosterRepo: roster})
	require.NoError(t, err)

	output, err := svc.GetStandings(ctx, &GetStandingsInput{Code: "ABCDE"})
	require.NoError(t, err)
	require.Len(t, output.Standings.Teams, 2)
	assert.Equal(t, models.TeamID("group5"), output.Standings.Teams[0].Team)
	assert.Equal(t, 6, output.Standings.Teams[0].Position)
	assert.Equal(t, 0, output.Standings.Teams[1].Position)
}
