package models

import (
	"time"
)

// Progress is the lifecycle tag of a round and the guard every transition
// re-reads before acting
type Progress string

const (
	// ProgressIdle indicates the active team has not rolled yet
	ProgressIdle Progress = "idle"

	// ProgressRolling indicates the dice are committed but no question is posted yet
	ProgressRolling Progress = "rolling"

	// ProgressQuestionPosted indicates the active team is answering
	ProgressQuestionPosted Progress = "question_posted"

	// ProgressCollecting indicates the answers are being scored
	ProgressCollecting Progress = "collecting"

	// ProgressResolved indicates the position is final and the rotation is about to advance
	ProgressResolved Progress = "resolved"
)

var progressTransitions = map[Progress][]Progress{
	ProgressIdle:           {ProgressRolling},
	ProgressRolling:        {ProgressQuestionPosted},
	ProgressQuestionPosted: {ProgressCollecting},
	ProgressCollecting:     {ProgressResolved},
	ProgressResolved:       {ProgressIdle},
}

// CanTransitionTo reports whether next directly follows p in the round lifecycle
func (p Progress) CanTransitionTo(next Progress) bool {
	for _, allowed := range progressTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsAnswers returns true if answers for the live round may be buffered
func (p Progress) AcceptsAnswers() bool {
	return p == ProgressQuestionPosted || p == ProgressCollecting
}

// RoundRef identifies a live round. Timers are bound to it.
type RoundRef struct {
	RoundNumber int
	Progress    Progress
}

// Round is the ephemeral record of one team's turn
type Round struct {
	// RoundNumber binds the record to the room state
	RoundNumber int `json:"roundNumber"`

	// TurnIndex is the rotation index the round was played at
	TurnIndex int `json:"turnIndex"`

	// Team is the team taking the turn
	Team TeamID `json:"team"`

	// Dice is the committed dice value
	Dice int `json:"dice"`

	// BasePosition is the team position before the roll
	BasePosition int `json:"basePosition"`

	// RolledPosition is the team position after the roll, before scoring
	RolledPosition int `json:"rolledPosition"`

	// Question is the posted question, without its key
	Question *Question `json:"question,omitempty"`

	RolledAt time.Time `json:"rolledAt"`
	PostedAt time.Time `json:"postedAt,omitempty"`
}

// RollRequest records that a member of the active team asked to roll
type RollRequest struct {
	RoundNumber   int       `json:"roundNumber"`
	ParticipantID string    `json:"participantId"`
	RequestedAt   time.Time `json:"requestedAt"`
}

// AnswerKey is the withheld correct choice for a round
type AnswerKey struct {
	RoundNumber int    `json:"roundNumber"`
	Key         string `json:"key"`
}

// Answer is one participant's buffered answer
type Answer struct {
	ParticipantID string `json:"participantId"`
	RoundNumber   int    `json:"roundNumber"`

	// Choice is empty when the participant submitted nothing
	Choice string `json:"choice"`

	SubmittedAt time.Time `json:"submittedAt"`
}
