package participant

import (
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	answersRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/answers"
	eventRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/events"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
	roundRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/deadline"
	"github.com/KirkDiggler/teamtrivia/internal/services/messaging"
	"github.com/KirkDiggler/teamtrivia/internal/services/ranking"
	"github.com/KirkDiggler/teamtrivia/internal/services/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/scheduler"
	"github.com/sirupsen/logrus"
)

// Config holds the dependencies of the participant driver
type Config struct {
	RoomRepo    roomRepo.Repository
	RosterRepo  rosterRepo.Repository
	RoundRepo   roundRepo.Repository
	AnswersRepo answersRepo.Repository
	EventRepo   eventRepo.Repository

	Round     round.Service
	Scheduler scheduler.Service
	Deadline  deadline.Service
	Ranking   ranking.Service

	// Messaging adds announcement text to notifications (optional)
	Messaging messaging.Service

	Clock clock.Clock
	Rules models.Rules

	// PostRetry is how long the arbiter waits before retrying a question
	// fetch that failed. Defaults to one second.
	PostRetry time.Duration

	Logger logrus.FieldLogger
}

type RunInput struct {
	Code          string
	ParticipantID string

	// Notifier receives this participant's notifications
	Notifier Notifier
}

type ArbitrateInput struct {
	Code string
}

type RosterChanged struct {
	Code         string
	Participants []*models.Participant
}

type PhaseChanged struct {
	Code     string
	Phase    models.Phase
	Previous models.Phase
	Deadline time.Time
}

type TurnChanged struct {
	Code        string
	Team        models.TeamID
	TurnIndex   int
	RoundNumber int

	// YourTurn is true when the participant is on the team
	YourTurn bool
}

type DiceRolled struct {
	Code         string
	Team         models.TeamID
	RoundNumber  int
	Dice         int
	Position     int
	Announcement string
}

type QuestionPosted struct {
	Code        string
	Team        models.TeamID
	RoundNumber int
	Question    models.Question
	ExpiresAt   time.Time
}

type RoundResolved struct {
	Code         string
	Team         models.TeamID
	RoundNumber  int
	Result       models.RoundResolved
	Announcement string
}

type GameEnded struct {
	Code string
	At   time.Time
}

type RankingReady struct {
	Code         string
	Standings    *models.Standings
	Announcement string
}
