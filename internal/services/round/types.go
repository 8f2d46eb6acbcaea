package round

import (
	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/dice"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/questions"
	eventRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/events"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
	roundRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/answers"
	"github.com/KirkDiggler/teamtrivia/internal/services/scheduler"
	"github.com/sirupsen/logrus"
)

// Config holds the dependencies of the round engine
type Config struct {
	RoomRepo   roomRepo.Repository
	RosterRepo rosterRepo.Repository
	RoundRepo  roundRepo.Repository
	EventRepo  eventRepo.Repository
	Answers    answers.Service
	Scheduler  scheduler.Service
	Bank       questions.Bank
	DiceRoller dice.Roller
	Clock      clock.Clock
	Rules      models.Rules
	Logger     logrus.FieldLogger
}

type RequestRollInput struct {
	Code          string
	ParticipantID string
}

type RequestRollOutput struct {
	Applied bool

	// Skipped is ErrNotYourTurn or ErrStaleRound when nothing was written
	Skipped error

	RoundNumber int
}

type CommitRollInput struct {
	Code    string
	ActorID string

	// RoundNumber is the round the caller observed
	RoundNumber int

	// OnBehalf rolls without a request, after the roll timeout
	OnBehalf bool
}

type CommitRollOutput struct {
	Applied bool
	Skipped error

	Dice     int
	Position int

	// Posted is true when the question was posted in the same call
	Posted bool
}

type PostQuestionInput struct {
	Code        string
	ActorID     string
	RoundNumber int
}

type PostQuestionOutput struct {
	Applied  bool
	Skipped  error
	Question *models.Question
}

type SubmitAnswerInput struct {
	Code          string
	ParticipantID string

	// Choice is a choice key or lettered choice; empty means no answer
	Choice string
}

type SubmitAnswerOutput struct {
	Applied     bool
	Skipped     error
	RoundNumber int
}

type TryResolveInput struct {
	Code        string
	ActorID     string
	RoundNumber int

	// TimedOut resolves with whatever answers are buffered
	TimedOut bool
}

type TryResolveOutput struct {
	Applied bool
	Skipped error

	// Pending is true when answers are still outstanding
	Pending bool

	Result *models.RoundResolved
}
