package events

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	store   store.Store
	repo    Repository
	testNow time.Time
}

func (s *RepositoryTestSuite) SetupTest() {
	s.store = store.NewMemory()
	repo, err := New(&Config{Store: s.store})
	s.Require().NoError(err)
	s.repo = repo
	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) TestAppendAndListPreservesVariants() {
	ctx := context.Background()

	_, err := s.repo.AppendEvent(ctx, &AppendEventInput{
		Code: "ABCDE",
		Event: &models.Event{
			At: s.testNow, RoundNumber: 0, Team: "group1",
			Payload: models.DiceRolled{Dice: 5, Position: 5},
		},
	})
	s.Require().NoError(err)
	_, err = s.repo.AppendEvent(ctx, &AppendEventInput{
		Code: "ABCDE",
		Event: &models.Event{
			At: s.testNow, RoundNumber: 0, Team: "group1",
			Payload: models.RoundResolved{Correct: 2, TeamSize: 2, Delta: 2, Position: 7},
		},
	})
	s.Require().NoError(err)

	events, err := s.repo.ListEvents(ctx, &ListEventsInput{Code: "ABCDE"})
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.NotEmpty(events[0].ID)
	s.Equal(models.DiceRolled{Dice: 5, Position: 5}, events[0].Payload)
	s.Equal(models.RoundResolved{Correct: 2, TeamSize: 2, Delta: 2, Position: 7}, events[1].Payload)
}

func (s *RepositoryTestSuite) TestFollowReportsUndecodableEntries() {
	ctx := context.Background()
	_, err := s.store.Append(ctx, "rooms/ABCDE/events", map[string]string{"kind": "rollDice"})
	s.Require().NoError(err)

	bad := make(chan string, 1)
	good := make(chan *models.Event, 1)
	sub, err := s.repo.FollowEvents(ctx, &FollowEventsInput{
		Code:          "ABCDE",
		OnEvent:       func(e *models.Event) { good <- e },
		OnDecodeError: func(key string, err error) { bad <- key },
	})
	s.Require().NoError(err)
	defer sub.Close()

	select {
	case <-bad:
	case <-time.After(time.Second):
		s.Fail("decode error not reported")
	}

	_, err = s.repo.AppendEvent(ctx, &AppendEventInput{
		Code:  "ABCDE",
		Event: &models.Event{At: s.testNow, Payload: models.QuestionPosted{ExpiresAt: s.testNow}},
	})
	s.Require().NoError(err)

	select {
	case e := <-good:
		s.Equal(models.EventKindQuestionPosted, e.Payload.Kind())
	case <-time.After(time.Second):
		s.Fail("event not delivered")
	}
}
