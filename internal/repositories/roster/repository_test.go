package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo    Repository
	testNow time.Time
}

func (s *RepositoryTestSuite) SetupTest() {
	repo, err := New(&Config{Store: store.NewMemory()})
	s.Require().NoError(err)
	s.repo = repo
	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) TestListParticipantsInJoinOrder() {
	for i, id := range []string{"c", "a", "b"} {
		err := s.repo.SaveParticipant(context.Background(), &SaveParticipantInput{
			Code: "ABCDE",
			Participant: &models.Participant{
				ID:       id,
				Name:     "player " + id,
				JoinedAt: s.testNow.Add(time.Duration(i) * time.Second),
			},
		})
		s.Require().NoError(err)
	}

	participants, err := s.repo.ListParticipants(context.Background(), &ListParticipantsInput{Code: "ABCDE"})
	s.Require().NoError(err)
	s.Require().Len(participants, 3)
	s.Equal("c", participants[0].ID)
	s.Equal("a", participants[1].ID)
	s.Equal("b", participants[2].ID)
}

func (s *RepositoryTestSuite) TestSaveParticipantReplacesRecord() {
	p := &models.Participant{ID: "p1", Name: "Ada", JoinedAt: s.testNow}
	s.Require().NoError(s.repo.SaveParticipant(context.Background(), &SaveParticipantInput{Code: "ABCDE", Participant: p}))

	p.Team = "group2"
	s.Require().NoError(s.repo.SaveParticipant(context.Background(), &SaveParticipantInput{Code: "ABCDE", Participant: p}))

	got, err := s.repo.GetParticipant(context.Background(), &GetParticipantInput{Code: "ABCDE", ParticipantID: "p1"})
	s.Require().NoError(err)
	s.Equal(models.TeamID("group2"), got.Team)
	s.True(got.HasTeam())
}

func (s *RepositoryTestSuite) TestGetMissingParticipant() {
	_, err := s.repo.GetParticipant(context.Background(), &GetParticipantInput{Code: "ABCDE", ParticipantID: "nobody"})
	s.True(errors.Is(err, models.ErrParticipantNotFound))

	participants, err := s.repo.ListParticipants(context.Background(), &ListParticipantsInput{Code: "ABCDE"})
	s.Require().NoError(err)
	s.Empty(participants)
}

func (s *RepositoryTestSuite) TestTokenIsKeptOffTheRoster() {
	s.Require().NoError(s.repo.SaveParticipant(context.Background(), &SaveParticipantInput{
		Code:        "ABCDE",
		Participant: &models.Participant{ID: "p1", Name: "Ada", JoinedAt: s.testNow},
	}))
	s.Require().NoError(s.repo.SaveToken(context.Background(), &SaveTokenInput{
		Code:          "ABCDE",
		ParticipantID: "p1",
		Token:         "secret",
	}))

	token, err := s.repo.GetToken(context.Background(), &GetTokenInput{Code: "ABCDE", ParticipantID: "p1"})
	s.Require().NoError(err)
	s.Equal("secret", token)

	participants, err := s.repo.ListParticipants(context.Background(), &ListParticipantsInput{Code: "ABCDE"})
	s.Require().NoError(err)
	s.Require().Len(participants, 1)
	s.Equal("p1", participants[0].ID)

	_, err = s.repo.GetToken(context.Background(), &GetTokenInput{Code: "ABCDE", ParticipantID: "p2"})
	s.True(errors.Is(err, models.ErrParticipantNotFound))
}
