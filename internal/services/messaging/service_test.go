package messaging

import (
	"context"
	"testing"

	"github.com/KirkDiggler/teamtrivia/internal/dice/mocks"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type MessagingServiceTestSuite struct {
	suite.Suite
	mockCtrl   *gomock.Controller
	mockRoller *mocks.MockRoller
	service    Service
	ctx        context.Context
}

func (s *MessagingServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRoller = mocks.NewMockRoller(s.mockCtrl)
	s.ctx = context.Background()

	// Always pick the first candidate
	s.mockRoller.EXPECT().Roll(gomock.Any()).Return(1).AnyTimes()

	var err error
	s.service, err = NewService(&ServiceConfig{Roller: s.mockRoller})
	s.Require().NoError(err)
}

func (s *MessagingServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestMessagingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MessagingServiceTestSuite))
}

func (s *MessagingServiceTestSuite) TestNewServiceRequiresRoller() {
	_, err := NewService(&ServiceConfig{})
	s.Error(err)
}

func (s *MessagingServiceTestSuite) TestJoinMessageDefaultsToFunny() {
	output, err := s.service.GetJoinMessage(s.ctx, &GetJoinMessageInput{
		ParticipantName: "Alice",
		Phase:           models.PhaseForming,
	})
	s.Require().NoError(err)
	s.Equal(ToneFunny, output.Tone)
	s.Contains(output.Message, "Alice")
}

func (s *MessagingServiceTestSuite) TestJoinMessageFollowsPreferredTone() {
	neutral, err := s.service.GetJoinMessage(s.ctx, &GetJoinMessageInput{
		ParticipantName: "Alice",
		Phase:           models.PhaseForming,
		PreferredTone:   ToneNeutral,
	})
	s.Require().NoError(err)
	s.Equal(ToneNeutral, neutral.Tone)
	s.Equal("Alice joined the room.", neutral.Message)

	celebration, err := s.service.GetJoinMessage(s.ctx, &GetJoinMessageInput{
		ParticipantName: "Alice",
		Phase:           models.PhaseForming,
		PreferredTone:   ToneCelebration,
	})
	s.Require().NoError(err)
	s.Equal(ToneCelebration, celebration.Tone)
	s.Equal("Everybody welcome Alice! The party just got bigger.", celebration.Message)

	funny, err := s.service.GetJoinMessage(s.ctx, &GetJoinMessageInput{
		ParticipantName: "Alice",
		Phase:           models.PhaseForming,
	})
	s.Require().NoError(err)
	s.NotEqual(neutral.Message, funny.Message)
	s.NotEqual(celebration.Message, funny.Message)
}

func (s *MessagingServiceTestSuite) TestJoinMessageFallsBackToFunny() {
	output, err := s.service.GetJoinMessage(s.ctx, &GetJoinMessageInput{
		ParticipantName: "Dee",
		Phase:           models.PhaseEnded,
		PreferredTone:   ToneCelebration,
	})
	s.Require().NoError(err)
	s.Equal(ToneFunny, output.Tone)
	s.Equal("Dee arrives just in time for the credits.", output.Message)
}

func (s *MessagingServiceTestSuite) TestErrorMessageFollowsPreferredTone() {
	funny, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{Err: models.ErrRoomNotFound})
	s.Require().NoError(err)
	s.Equal(ToneFunny, funny.Tone)

	neutral, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{
		Err:           models.ErrRoomNotFound,
		PreferredTone: ToneNeutral,
	})
	s.Require().NoError(err)
	s.Equal(ToneNeutral, neutral.Tone)
	s.Equal("That room does not exist.", neutral.Message)
	s.NotEqual(funny.Message, neutral.Message)
}

func (s *MessagingServiceTestSuite) TestJoinErrorForStartedGame() {
	output, err := s.service.GetJoinErrorMessage(s.ctx, &GetJoinErrorMessageInput{
		ParticipantName: "Bob",
		Err:             models.ErrGameAlreadyStarted,
	})
	s.Require().NoError(err)
	s.Equal("Error Joining Room", output.Title)
	s.Contains(output.Message, "Too late, Bob")
}

func (s *MessagingServiceTestSuite) TestDiceRollMessages() {
	critical, err := s.service.GetDiceRollMessage(s.ctx, &GetDiceRollMessageInput{
		Team: "group1", Dice: 6, Sides: 6, Position: 9,
	})
	s.Require().NoError(err)
	s.Equal("Critical Roll!", critical.Title)
	s.Contains(critical.Message, "square 9")

	normal, err := s.service.GetDiceRollMessage(s.ctx, &GetDiceRollMessageInput{
		Team: "group2", Dice: 3, Sides: 6, Position: 3,
	})
	s.Require().NoError(err)
	s.Equal("Dice Rolled", normal.Title)
}

func (s *MessagingServiceTestSuite) TestRoundResultMessages() {
	perfect, err := s.service.GetRoundResultMessage(s.ctx, &GetRoundResultMessageInput{
		Team:   "group1",
		Result: models.RoundResolved{Correct: 2, TeamSize: 2, Delta: 2, Position: 7},
	})
	s.Require().NoError(err)
	s.Equal(ToneCelebration, perfect.Tone)

	penalty, err := s.service.GetRoundResultMessage(s.ctx, &GetRoundResultMessageInput{
		Team:   "group1",
		Result: models.RoundResolved{Correct: 0, TeamSize: 2, Delta: -4, Position: 0, TimedOut: true},
	})
	s.Require().NoError(err)
	s.Equal("Ouch!", penalty.Title)
	s.Contains(penalty.Message, "Time's up!")
}

func (s *MessagingServiceTestSuite) TestGameEndedMessage() {
	output, err := s.service.GetGameEndedMessage(s.ctx, &GetGameEndedMessageInput{
		Standings: &models.Standings{
			Teams: []models.TeamStanding{
				{Rank: 1, Team: "group2", Position: 12},
				{Rank: 2, Team: "group1", Position: 8},
			},
		},
	})
	s.Require().NoError(err)
	s.Contains(output.Message, "group2")

	tied, err := s.service.GetGameEndedMessage(s.ctx, &GetGameEndedMessageInput{
		Standings: &models.Standings{
			Teams: []models.TeamStanding{
				{Rank: 1, Team: "group2", Position: 8},
				{Rank: 2, Team: "group1", Position: 8},
			},
		},
	})
	s.Require().NoError(err)
	s.Contains(tied.Message, "tie")
}

func (s *MessagingServiceTestSuite) TestErrorMessageForWrappedStoreError() {
	output, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{
		Err:           models.ErrStoreUnavailable,
		PreferredTone: ToneCelebration,
	})
	s.Require().NoError(err)
	s.Equal(ToneNeutral, output.Tone)
}
