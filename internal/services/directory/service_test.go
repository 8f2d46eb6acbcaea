package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock/mocks"
	diceMocks "github.com/KirkDiggler/teamtrivia/internal/dice/mocks"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	roomMocks "github.com/KirkDiggler/teamtrivia/internal/repositories/room/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DirectoryServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockRoomRepo   *roomMocks.MockRepository
	mockDiceRoller *diceMocks.MockRoller
	mockClock      *mocks.MockClock
	service        Service
	ctx            context.Context
	testTime       time.Time
}

func (s *DirectoryServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRoomRepo = roomMocks.NewMockRepository(s.mockCtrl)
	s.mockDiceRoller = diceMocks.NewMockRoller(s.mockCtrl)
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	service, err := New(&Config{
		RoomRepo:   s.mockRoomRepo,
		DiceRoller: s.mockDiceRoller,
		Clock:      s.mockClock,
		Rules:      models.DefaultRules(),
	})
	s.Require().NoError(err)
	s.service = service
}

func (s *DirectoryServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestDirectoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DirectoryServiceTestSuite))
}

func (s *DirectoryServiceTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.Equal(ErrNilConfig, err)

	_, err = New(&Config{DiceRoller: s.mockDiceRoller, Clock: s.mockClock})
	s.Equal(ErrNilRoomRepo, err)

	_, err = New(&Config{RoomRepo: s.mockRoomRepo, Clock: s.mockClock})
	s.Equal(ErrNilDiceRoller, err)

	_, err = New(&Config{RoomRepo: s.mockRoomRepo, DiceRoller: s.mockDiceRoller})
	s.Equal(ErrNilClock, err)
}

// expectCode makes the roller spell code, one base36 digit per roll
func (s *DirectoryServiceTestSuite) expectCode(code string) {
	for _, c := range code {
		s.mockDiceRoller.EXPECT().Roll(36).Return(indexOf(c) + 1)
	}
}

func indexOf(c rune) int {
	for i, candidate := range codeAlphabet {
		if candidate == c {
			return i
		}
	}
	return -1
}

func (s *DirectoryServiceTestSuite) TestCreateRoomRegeneratesTakenCode() {
	// First candidate is AAAAA
	s.mockDiceRoller.EXPECT().Roll(36).Return(11).Times(5)
	s.mockRoomRepo.EXPECT().Exists(s.ctx, &roomRepo.ExistsInput{Code: "AAAAA"}).Return(true, nil)

	s.expectCode("B7Z00")
	s.mockRoomRepo.EXPECT().Exists(s.ctx, &roomRepo.ExistsInput{Code: "B7Z00"}).Return(false, nil)

	s.mockRoomRepo.EXPECT().CreateRoom(s.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, input *roomRepo.CreateRoomInput) error {
			s.Equal("B7Z00", input.Room.Code)
			s.Equal("arbiter-id", input.Room.ArbiterID)
			s.Equal(models.PhaseForming, input.State.Phase)
			s.Equal(models.ProgressIdle, input.State.Progress)
			s.Equal(models.DefaultTeams, input.Teams)
			return nil
		})

	output, err := s.service.CreateRoom(s.ctx, &CreateRoomInput{ArbiterID: "arbiter-id", Name: "Ada"})
	s.Require().NoError(err)
	s.Equal("B7Z00", output.Room.Code)
	s.Equal(s.testTime, output.Room.CreatedAt)
}

func (s *DirectoryServiceTestSuite) TestCreateRoomGivesUpAfterMaxAttempts() {
	s.mockDiceRoller.EXPECT().Roll(36).Return(1).AnyTimes()
	s.mockRoomRepo.EXPECT().Exists(s.ctx, gomock.Any()).Return(true, nil).Times(defaultMaxAttempts)

	_, err := s.service.CreateRoom(s.ctx, &CreateRoomInput{ArbiterID: "arbiter-id"})
	s.Equal(ErrCodeExhausted, err)
}

func (s *DirectoryServiceTestSuite) TestCreateRoomPropagatesStoreFailure() {
	s.expectCode("ABCDE")
	s.mockRoomRepo.EXPECT().Exists(s.ctx, gomock.Any()).Return(false, models.ErrStoreUnavailable)

	_, err := s.service.CreateRoom(s.ctx, &CreateRoomInput{ArbiterID: "arbiter-id"})
	s.True(errors.Is(err, models.ErrStoreUnavailable))
}

func (s *DirectoryServiceTestSuite) TestResolveRoomNormalizesCode() {
	room := &models.Room{Code: "ABCDE"}
	s.mockRoomRepo.EXPECT().GetRoom(s.ctx, &roomRepo.GetRoomInput{Code: "ABCDE"}).Return(room, nil)

	output, err := s.service.ResolveRoom(s.ctx, &ResolveRoomInput{Code: "  abcde "})
	s.Require().NoError(err)
	s.Equal(room, output.Room)
	s.Equal("rooms/ABCDE", output.Path)
}

func (s *DirectoryServiceTestSuite) TestResolveRoomNotFound() {
	_, err := s.service.ResolveRoom(s.ctx, &ResolveRoomInput{Code: "   "})
	s.Equal(models.ErrRoomNotFound, err)

	s.mockRoomRepo.EXPECT().GetRoom(s.ctx, gomock.Any()).Return(nil, models.ErrRoomNotFound)
	_, err = s.service.ResolveRoom(s.ctx, &ResolveRoomInput{Code: "ZZZZZ"})
	s.Equal(models.ErrRoomNotFound, err)
}
