package game

import (
	"context"
	"errors"
	"testing"
	"time"

	clockMocks "github.com/KirkDiggler/teamtrivia/internal/common/clock/mocks"
	uuidMocks "github.com/KirkDiggler/teamtrivia/internal/common/uuid/mocks"
	diceMocks "github.com/KirkDiggler/teamtrivia/internal/dice/mocks"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	bankMocks "github.com/KirkDiggler/teamtrivia/internal/questions/mocks"
	answersRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/answers"
	eventRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/events"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
	roundRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/answers"
	"github.com/KirkDiggler/teamtrivia/internal/services/deadline"
	"github.com/KirkDiggler/teamtrivia/internal/services/directory"
	"github.com/KirkDiggler/teamtrivia/internal/services/ranking"
	"github.com/KirkDiggler/teamtrivia/internal/services/roster"
	"github.com/KirkDiggler/teamtrivia/internal/services/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/scheduler"
	"github.com/KirkDiggler/teamtrivia/internal/store"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type GameServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockClock      *clockMocks.MockClock
	mockUUID       *uuidMocks.MockUUID
	mockDiceRoller *diceMocks.MockRoller
	mockBank       *bankMocks.MockBank
	roomRepo       roomRepo.Repository
	eventRepo      eventRepo.Repository
	answersRepo    answersRepo.Repository
	service        *service
	ctx            context.Context
	testTime       time.Time
	rules          models.Rules
}

func (s *GameServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.mockDiceRoller = diceMocks.NewMockRoller(s.mockCtrl)
	s.mockBank = bankMocks.NewMockBank(s.mockCtrl)
	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.rules = models.DefaultRules()

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	// Room codes come out as "AAAAA"; the rotation keeps roster order
	s.mockDiceRoller.EXPECT().Roll(36).Return(11).AnyTimes()
	s.mockDiceRoller.EXPECT().Shuffle(gomock.Any(), gomock.Any()).AnyTimes()

	st := store.NewMemory()
	var err error
	s.roomRepo, err = roomRepo.New(&roomRepo.Config{Store: st})
	s.Require().NoError(err)
	rosters, err := rosterRepo.New(&rosterRepo.Config{Store: st})
	s.Require().NoError(err)
	rounds, err := roundRepo.New(&roundRepo.Config{Store: st})
	s.Require().NoError(err)
	s.eventRepo, err = eventRepo.New(&eventRepo.Config{Store: st})
	s.Require().NoError(err)
	s.answersRepo, err = answersRepo.New(&answersRepo.Config{Store: st})
	s.Require().NoError(err)

	rooms, err := directory.New(&directory.Config{
		RoomRepo:   s.roomRepo,
		DiceRoller: s.mockDiceRoller,
		Clock:      s.mockClock,
		Rules:      s.rules,
	})
	s.Require().NoError(err)
	participants, err := roster.New(&roster.Config{
		RoomRepo:      s.roomRepo,
		RosterRepo:    rosters,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
		Rules:         s.rules,
	})
	s.Require().NoError(err)
	rotation, err := scheduler.New(&scheduler.Config{
		RoomRepo:   s.roomRepo,
		RoundRepo:  rounds,
		DiceRoller: s.mockDiceRoller,
	})
	s.Require().NoError(err)
	aggregator, err := answers.New(&answers.Config{AnswersRepo: s.answersRepo})
	s.Require().NoError(err)
	engine, err := round.New(&round.Config{
		RoomRepo:   s.roomRepo,
		RosterRepo: rosters,
		RoundRepo:  rounds,
		EventRepo:  s.eventRepo,
		Answers:    aggregator,
		Scheduler:  rotation,
		Bank:       s.mockBank,
		DiceRoller: s.mockDiceRoller,
		Clock:      s.mockClock,
		Rules:      s.rules,
	})
	s.Require().NoError(err)
	sessionClock, err := deadline.New(&deadline.Config{
		RoomRepo: s.roomRepo,
		Clock:    s.mockClock,
		Duration: s.rules.GameDuration,
	})
	s.Require().NoError(err)
	ranker, err := ranking.New(&ranking.Config{
		RoomRepo:   s.roomRepo,
		RosterRepo: rosters,
		Teams:      s.rules.Teams,
	})
	s.Require().NoError(err)

	s.service, err = New(&Config{
		Directory:     rooms,
		Roster:        participants,
		Scheduler:     rotation,
		Round:         engine,
		Deadline:      sessionClock,
		Ranking:       ranker,
		RoomRepo:      s.roomRepo,
		RoundRepo:     rounds,
		AnswersRepo:   s.answersRepo,
		EventRepo:     s.eventRepo,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
		Rules:         s.rules,
	})
	s.Require().NoError(err)
}

func (s *GameServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestGameServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}

func (s *GameServiceTestSuite) createRoom() *CreateRoomOutput {
	s.mockUUID.EXPECT().NewUUID().Return("host")
	output, err := s.service.CreateRoom(s.ctx, &CreateRoomInput{Name: "Friday Quiz", ArbiterName: "Host"})
	s.Require().NoError(err)
	return output
}

func (s *GameServiceTestSuite) joinOnTeam(code, id string, team models.TeamID) {
	s.mockUUID.EXPECT().NewUUID().Return(id)
	_, err := s.service.JoinRoom(s.ctx, &JoinRoomInput{Code: code, Name: id})
	s.Require().NoError(err)
	choice, err := s.service.ChooseTeam(s.ctx, &ChooseTeamInput{Code: code, ParticipantID: id, Team: team})
	s.Require().NoError(err)
	s.Require().True(choice.Applied)
}

func (s *GameServiceTestSuite) state(code string) *models.RoomState {
	state, err := s.roomRepo.GetState(s.ctx, &roomRepo.GetStateInput{Code: code})
	s.Require().NoError(err)
	return state
}

func (s *GameServiceTestSuite) TestNewRequiresDependencies() {
	_, err := New(nil)
	s.Equal(ErrNilConfig, err)

	_, err = New(&Config{})
	s.Equal(ErrNilDirectory, err)
}

func (s *GameServiceTestSuite) TestCreateRoomJoinsArbiter() {
	output := s.createRoom()

	s.Equal("AAAAA", output.Room.Code)
	s.Equal("host", output.Room.ArbiterID)
	s.Equal("host", output.Participant.ID)
	s.Equal("Host", output.Participant.Name)
	s.True(s.state("AAAAA").Phase.IsForming())
}

func (s *GameServiceTestSuite) TestJoinRoomNormalizesCode() {
	s.createRoom()
	s.mockUUID.EXPECT().NewUUID().Return("p1")

	output, err := s.service.JoinRoom(s.ctx, &JoinRoomInput{Code: " aaaaa ", Name: "Ada"})
	s.Require().NoError(err)
	s.Equal("AAAAA", output.Room.Code)
	s.Equal("p1", output.Participant.ID)
}

func (s *GameServiceTestSuite) TestRejoinAsArbiterNeedsToken() {
	room := s.createRoom()
	s.Require().NotEmpty(room.Token)

	_, err := s.service.JoinRoom(s.ctx, &JoinRoomInput{Code: room.Room.Code, Name: "Mallory", ParticipantID: room.Room.ArbiterID})
	s.Equal(models.ErrRejoinDenied, err)

	_, err = s.service.JoinRoom(s.ctx, &JoinRoomInput{
		Code:          room.Room.Code,
		ParticipantID: room.Room.ArbiterID,
		Token:         "not-the-token",
	})
	s.Equal(models.ErrRejoinDenied, err)

	rejoined, err := s.service.JoinRoom(s.ctx, &JoinRoomInput{
		Code:          room.Room.Code,
		ParticipantID: room.Room.ArbiterID,
		Token:         room.Token,
	})
	s.Require().NoError(err)
	s.True(rejoined.Rejoined)
	s.Equal("Host", rejoined.Participant.Name)
	s.Equal(room.Token, rejoined.Token)
}

func (s *GameServiceTestSuite) TestJoinUnknownRoom() {
	_, err := s.service.JoinRoom(s.ctx, &JoinRoomInput{Code: "ZZZZZ", Name: "Ada"})
	s.True(errors.Is(err, models.ErrRoomNotFound))
}

func (s *GameServiceTestSuite) TestStartGameRequiresArbiter() {
	room := s.createRoom()

	_, err := s.service.StartGame(s.ctx, &StartGameInput{Code: room.Room.Code, ActorID: "p1"})
	s.Equal(models.ErrNotArbiter, err)
}

func (s *GameServiceTestSuite) TestStartGameRequiresTwoAssignedPlayers() {
	room := s.createRoom()
	s.joinOnTeam(room.Room.Code, "p1", "group1")

	_, err := s.service.StartGame(s.ctx, &StartGameInput{Code: room.Room.Code, ActorID: "host"})
	s.True(errors.Is(err, models.ErrNotEnoughPlayers))
	s.True(s.state(room.Room.Code).Phase.IsForming())
}

func (s *GameServiceTestSuite) TestStartGameBuildsRotationFromNonEmptyTeams() {
	code := s.createRoom().Room.Code
	s.joinOnTeam(code, "p1", "group1")
	s.joinOnTeam(code, "p2", "group1")
	s.joinOnTeam(code, "p3", "group3")
	s.joinOnTeam(code, "p4", "group3")

	// Leftovers of an earlier session
	_, err := s.eventRepo.AppendEvent(s.ctx, &eventRepo.AppendEventInput{
		Code:  code,
		Event: &models.Event{At: s.testTime, Payload: models.DiceRolled{Dice: 2, Position: 2}},
	})
	s.Require().NoError(err)
	s.Require().NoError(s.answersRepo.SaveAnswer(s.ctx, &answersRepo.SaveAnswerInput{
		Code:   code,
		Answer: &models.Answer{ParticipantID: "p1", Choice: "A"},
	}))

	output, err := s.service.StartGame(s.ctx, &StartGameInput{Code: code, ActorID: "host"})
	s.Require().NoError(err)
	s.Equal([]models.TeamID{"group1", "group3"}, output.Rotation)
	s.Equal(s.testTime.Add(s.rules.GameDuration), output.Deadline)

	state := s.state(code)
	s.True(state.Phase.IsActive())
	s.Equal(output.Rotation, state.Rotation)
	s.Equal(0, state.TurnIndex)
	s.Equal(0, state.RoundNumber)
	s.Equal(models.ProgressIdle, state.Progress)
	s.True(state.StartTime.Equal(s.testTime))

	events, err := s.eventRepo.ListEvents(s.ctx, &eventRepo.ListEventsInput{Code: code})
	s.Require().NoError(err)
	s.Empty(events)

	buffered, err := s.answersRepo.ListAnswers(s.ctx, &answersRepo.ListAnswersInput{Code: code})
	s.Require().NoError(err)
	s.Empty(buffered)

	_, err = s.service.StartGame(s.ctx, &StartGameInput{Code: code, ActorID: "host"})
	s.Equal(models.ErrGameAlreadyStarted, err)
}

func (s *GameServiceTestSuite) TestRollDiceWrongTeamIsSkipped() {
	code := s.createRoom().Room.Code
	s.joinOnTeam(code, "p1", "group1")
	s.joinOnTeam(code, "p2", "group2")
	_, err := s.service.StartGame(s.ctx, &StartGameInput{Code: code, ActorID: "host"})
	s.Require().NoError(err)

	output, err := s.service.RollDice(s.ctx, &RollDiceInput{Code: code, ParticipantID: "p2"})
	s.Require().NoError(err)
	s.False(output.Applied)
	s.Equal(models.ErrNotYourTurn, output.Skipped)

	output, err = s.service.RollDice(s.ctx, &RollDiceInput{Code: code, ParticipantID: "p1"})
	s.Require().NoError(err)
	s.True(output.Applied)
}

func (s *GameServiceTestSuite) TestSubmitAnswerBeforeQuestionIsSkipped() {
	code := s.createRoom().Room.Code
	s.joinOnTeam(code, "p1", "group1")
	s.joinOnTeam(code, "p2", "group2")
	_, err := s.service.StartGame(s.ctx, &StartGameInput{Code: code, ActorID: "host"})
	s.Require().NoError(err)

	output, err := s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{Code: code, ParticipantID: "p1", Choice: "A"})
	s.Require().NoError(err)
	s.False(output.Applied)
	s.Equal(models.ErrStaleRound, output.Skipped)
}

func (s *GameServiceTestSuite) TestForceEndAndStandings() {
	code := s.createRoom().Room.Code
	s.joinOnTeam(code, "p1", "group1")
	s.joinOnTeam(code, "p2", "group2")
	_, err := s.service.StartGame(s.ctx, &StartGameInput{Code: code, ActorID: "host"})
	s.Require().NoError(err)

	_, err = s.service.ForceEnd(s.ctx, &ForceEndInput{Code: code, ActorID: "p1"})
	s.Equal(models.ErrNotArbiter, err)

	ended, err := s.service.ForceEnd(s.ctx, &ForceEndInput{Code: code, ActorID: "host"})
	s.Require().NoError(err)
	s.True(ended.Applied)
	s.True(s.state(code).Phase.IsEnded())

	again, err := s.service.ForceEnd(s.ctx, &ForceEndInput{Code: code, ActorID: "host"})
	s.Require().NoError(err)
	s.False(again.Applied)

	standings, err := s.service.GetStandings(s.ctx, &GetStandingsInput{Code: code})
	s.Require().NoError(err)
	s.Len(standings.Standings.Teams, 2)
	s.Len(standings.Standings.Participants, 2)
}
