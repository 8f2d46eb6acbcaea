package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock/mocks"
	uuidMocks "github.com/KirkDiggler/teamtrivia/internal/common/uuid/mocks"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
	"github.com/KirkDiggler/teamtrivia/internal/store"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RosterServiceTestSuite struct {
	suite.Suite
	mockCtrl   *gomock.Controller
	mockClock  *mocks.MockClock
	mockUUID   *uuidMocks.MockUUID
	roomRepo   roomRepo.Repository
	rosterRepo rosterRepo.Repository
	rules      models.Rules
	service    *service
	ctx        context.Context
	testTime   time.Time
	testCode   string
}

func (s *RosterServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.testCode = "ABCDE"

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	st := store.NewMemory()
	var err error
	s.roomRepo, err = roomRepo.New(&roomRepo.Config{Store: st})
	s.Require().NoError(err)
	s.rosterRepo, err = rosterRepo.New(&rosterRepo.Config{Store: st})
	s.Require().NoError(err)

	s.Require().NoError(s.roomRepo.CreateRoom(s.ctx, &roomRepo.CreateRoomInput{
		Room:  &models.Room{Code: s.testCode, ArbiterID: "arbiter"},
		State: &models.RoomState{Phase: models.PhaseForming, Progress: models.ProgressIdle},
		Teams: models.DefaultTeams,
	}))

	s.rules = models.DefaultRules()
	s.service = s.newService()
}

func (s *RosterServiceTestSuite) newService() *service {
	svc, err := New(&Config{
		RoomRepo:      s.roomRepo,
		RosterRepo:    s.rosterRepo,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
		Rules:         s.rules,
	})
	s.Require().NoError(err)
	return svc
}

func (s *RosterServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRosterServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RosterServiceTestSuite))
}

func (s *RosterServiceTestSuite) setPhase(phase models.Phase) {
	s.Require().NoError(s.roomRepo.UpdateState(s.ctx, &roomRepo.UpdateStateInput{
		Code:   s.testCode,
		Update: roomRepo.StateUpdate{Phase: &phase},
	}))
}

func (s *RosterServiceTestSuite) TestJoinForming() {
	s.mockUUID.EXPECT().NewUUID().Return("p1")

	output, err := s.service.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "  Ada "})
	s.Require().NoError(err)
	s.Equal("p1", output.Participant.ID)
	s.Equal("Ada", output.Participant.Name)
	s.False(output.Participant.HasTeam())
	s.False(output.Spectator)

	got, err := s.rosterRepo.GetParticipant(s.ctx, &rosterRepo.GetParticipantInput{Code: s.testCode, ParticipantID: "p1"})
	s.Require().NoError(err)
	s.Equal(s.testTime, got.JoinedAt.UTC())
}

func (s *RosterServiceTestSuite) TestJoinUsesGivenID() {
	output, err := s.service.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "Host", ParticipantID: "arbiter"})
	s.Require().NoError(err)
	s.Equal("arbiter", output.Participant.ID)
}

func (s *RosterServiceTestSuite) TestRejoinKeepsTeamAfterStart() {
	s.mockUUID.EXPECT().NewUUID().Return("p1")
	joined, err := s.service.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "Ada"})
	s.Require().NoError(err)
	s.Require().NotEmpty(joined.Token)
	_, err = s.service.ChooseTeam(s.ctx, &ChooseTeamInput{Code: s.testCode, ParticipantID: "p1", Team: "group2"})
	s.Require().NoError(err)

	s.setPhase(models.PhaseActive)

	output, err := s.service.Rejoin(s.ctx, &RejoinInput{Code: s.testCode, ParticipantID: "p1", Token: joined.Token})
	s.Require().NoError(err)
	s.True(output.Rejoined)
	s.False(output.Spectator)
	s.Equal(models.TeamID("group2"), output.Participant.Team)
	s.Equal(joined.Token, output.Token)
}

func (s *RosterServiceTestSuite) TestRejoinRequiresToken() {
	arbiter, err := s.service.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "Host", ParticipantID: "arbiter"})
	s.Require().NoError(err)

	// The arbiter's ID is public; knowing it is not enough
	_, err = s.service.Rejoin(s.ctx, &RejoinInput{Code: s.testCode, ParticipantID: "arbiter"})
	s.Equal(models.ErrRejoinDenied, err)

	_, err = s.service.Rejoin(s.ctx, &RejoinInput{Code: s.testCode, ParticipantID: "arbiter", Token: "guess"})
	s.Equal(models.ErrRejoinDenied, err)

	_, err = s.service.Rejoin(s.ctx, &RejoinInput{Code: s.testCode, ParticipantID: "nobody", Token: arbiter.Token})
	s.Equal(models.ErrRejoinDenied, err)

	// Claiming a taken ID through Join is refused too
	_, err = s.service.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "Mallory", ParticipantID: "arbiter"})
	s.Equal(models.ErrRejoinDenied, err)

	got, err := s.rosterRepo.GetParticipant(s.ctx, &rosterRepo.GetParticipantInput{Code: s.testCode, ParticipantID: "arbiter"})
	s.Require().NoError(err)
	s.Equal("Host", got.Name)
}

func (s *RosterServiceTestSuite) TestTokensAreIssuedPerParticipant() {
	tokens := uuidMocks.NewMockUUID(s.mockCtrl)
	tokens.EXPECT().NewUUID().Return("token-1")
	tokens.EXPECT().NewUUID().Return("token-2")

	svc, err := New(&Config{
		RoomRepo:       s.roomRepo,
		RosterRepo:     s.rosterRepo,
		Clock:          s.mockClock,
		UUIDGenerator:  s.mockUUID,
		TokenGenerator: tokens,
		Rules:          s.rules,
	})
	s.Require().NoError(err)

	s.mockUUID.EXPECT().NewUUID().Return("p1")
	s.mockUUID.EXPECT().NewUUID().Return("p2")
	first, err := svc.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "Ada"})
	s.Require().NoError(err)
	second, err := svc.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "Bo"})
	s.Require().NoError(err)
	s.Equal("token-1", first.Token)
	s.Equal("token-2", second.Token)

	// One participant's token does not open another's seat
	_, err = svc.Rejoin(s.ctx, &RejoinInput{Code: s.testCode, ParticipantID: "p2", Token: first.Token})
	s.Equal(models.ErrRejoinDenied, err)
}

func (s *RosterServiceTestSuite) TestJoinUnknownRoom() {
	_, err := s.service.Join(s.ctx, &JoinInput{Code: "ZZZZZ", Name: "Ada"})
	s.True(errors.Is(err, models.ErrRoomNotFound))
}

func (s *RosterServiceTestSuite) TestJoinAfterStart() {
	s.setPhase(models.PhaseActive)

	_, err := s.service.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "Late"})
	s.Equal(models.ErrGameAlreadyStarted, err)

	s.setPhase(models.PhaseEnded)
	_, err = s.service.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "Later"})
	s.Equal(models.ErrGameAlreadyStarted, err)
}

func (s *RosterServiceTestSuite) TestLateJoinerIsSpectatorWhenAllowed() {
	s.rules.AllowLateJoin = true
	s.service = s.newService()
	s.setPhase(models.PhaseActive)
	s.mockUUID.EXPECT().NewUUID().Return("late")

	output, err := s.service.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "Late"})
	s.Require().NoError(err)
	s.True(output.Spectator)

	// Team choice stays frozen for the joiner
	choice, err := s.service.ChooseTeam(s.ctx, &ChooseTeamInput{Code: s.testCode, ParticipantID: "late", Team: "group1"})
	s.Require().NoError(err)
	s.False(choice.Applied)
}

func (s *RosterServiceTestSuite) TestChooseTeam() {
	s.mockUUID.EXPECT().NewUUID().Return("p1")
	_, err := s.service.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "Ada"})
	s.Require().NoError(err)

	output, err := s.service.ChooseTeam(s.ctx, &ChooseTeamInput{Code: s.testCode, ParticipantID: "p1", Team: "group4"})
	s.Require().NoError(err)
	s.True(output.Applied)

	teams, err := s.service.ListTeams(s.ctx, &ListTeamsInput{Code: s.testCode})
	s.Require().NoError(err)
	s.Require().Len(teams.Teams, 1)
	s.Equal(models.TeamID("group4"), teams.Teams[0].ID)
	s.Equal([]string{"p1"}, teams.Teams[0].MemberIDs)
}

func (s *RosterServiceTestSuite) TestChooseTeamRejectsUnknownTeam() {
	_, err := s.service.ChooseTeam(s.ctx, &ChooseTeamInput{Code: s.testCode, ParticipantID: "p1", Team: "group9"})
	s.True(errors.Is(err, models.ErrUnknownTeam))
}

func (s *RosterServiceTestSuite) TestChooseTeamIsNoOpOnceActive() {
	s.mockUUID.EXPECT().NewUUID().Return("p1")
	_, err := s.service.Join(s.ctx, &JoinInput{Code: s.testCode, Name: "Ada"})
	s.Require().NoError(err)
	_, err = s.service.ChooseTeam(s.ctx, &ChooseTeamInput{Code: s.testCode, ParticipantID: "p1", Team: "group1"})
	s.Require().NoError(err)

	s.setPhase(models.PhaseActive)

	output, err := s.service.ChooseTeam(s.ctx, &ChooseTeamInput{Code: s.testCode, ParticipantID: "p1", Team: "group2"})
	s.Require().NoError(err)
	s.False(output.Applied)

	got, err := s.rosterRepo.GetParticipant(s.ctx, &rosterRepo.GetParticipantInput{Code: s.testCode, ParticipantID: "p1"})
	s.Require().NoError(err)
	s.Equal(models.TeamID("group1"), got.Team)
}

func (s *RosterServiceTestSuite) TestNonEmptyTeamsFollowsEnumeration() {
	participants := []*models.Participant{
		{ID: "a", Team: "group3"},
		{ID: "b"},
		{ID: "c", Team: "group1"},
		{ID: "d", Team: "group3"},
	}

	teams := NonEmptyTeams(models.DefaultTeams, participants)
	s.Require().Len(teams, 2)
	s.Equal(models.TeamID("group1"), teams[0].ID)
	s.Equal(models.TeamID("group3"), teams[1].ID)
	s.Equal([]string{"a", "d"}, teams[1].MemberIDs)

	s.Equal([]string{"a", "d"}, MembersOf("group3", participants))
	s.Nil(MembersOf("", participants))
}
