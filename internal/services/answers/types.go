package answers

import (
	"github.com/KirkDiggler/teamtrivia/internal/models"
	answersRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/answers"
	"github.com/sirupsen/logrus"
)

// Config holds the dependencies of the aggregator
type Config struct {
	AnswersRepo answersRepo.Repository
	Logger      logrus.FieldLogger
}

type BufferInput struct {
	Code   string
	Answer *models.Answer
}

type CollectInput struct {
	Code        string
	RoundNumber int

	// MemberIDs are the active team's members at collection time
	MemberIDs []string
}

type CollectOutput struct {
	// Answers holds the members' answers; non-members are dropped
	Answers map[string]*models.Answer

	// Complete is true when every member has answered
	Complete bool
}

type ScoreInput struct {
	MemberIDs []string
	Answers   map[string]*models.Answer
	Key       string

	// Position is the team position before scoring
	Position int
}

type ScoreOutput struct {
	Correct  int
	TeamSize int
	Delta    int

	// Position is the team position after scoring, never below zero
	Position int
}

type ClearInput struct {
	Code string
}
