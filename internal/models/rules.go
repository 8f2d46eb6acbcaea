package models

import (
	"fmt"
	"time"
)

// Rules are the per-deployment game parameters
type Rules struct {
	// Teams is the enumeration participants choose from. Ranking ties keep this order.
	Teams []TeamID

	DiceSides  int
	MinPlayers int

	// RollTimeout is how long the active team has before the dice are rolled for them
	RollTimeout time.Duration

	// AnswerTimeout is how long the active team has to answer
	AnswerTimeout time.Duration

	GameDuration time.Duration
	CodeLength   int

	// PinnedTeam, when set and non-empty at start, always takes the first turn
	PinnedTeam TeamID

	// AllowLateJoin lets participants join an active room as spectators
	AllowLateJoin bool
}

const (
	MinAnswerTimeout = 10 * time.Second
	MaxAnswerTimeout = 15 * time.Second
)

// DefaultRules returns the standard game parameters
func DefaultRules() Rules {
	return Rules{
		Teams:         DefaultTeams,
		DiceSides:     6,
		MinPlayers:    2,
		RollTimeout:   5 * time.Second,
		AnswerTimeout: 10 * time.Second,
		GameDuration:  300 * time.Second,
		CodeLength:    5,
	}
}

// Validate checks the rules are playable
func (r *Rules) Validate() error {
	if len(r.Teams) == 0 {
		return fmt.Errorf("at least one team is required")
	}
	if r.DiceSides < 1 {
		return fmt.Errorf("dice sides must be positive, got %d", r.DiceSides)
	}
	if r.MinPlayers < 1 {
		return fmt.Errorf("min players must be positive, got %d", r.MinPlayers)
	}
	if r.RollTimeout <= 0 {
		return fmt.Errorf("roll timeout must be positive")
	}
	if r.AnswerTimeout < MinAnswerTimeout || r.AnswerTimeout > MaxAnswerTimeout {
		return fmt.Errorf("answer timeout must be between %s and %s, got %s", MinAnswerTimeout, MaxAnswerTimeout, r.AnswerTimeout)
	}
	if r.GameDuration <= 0 {
		return fmt.Errorf("game duration must be positive")
	}
	if r.CodeLength < 4 {
		return fmt.Errorf("room code length must be at least 4, got %d", r.CodeLength)
	}
	if r.PinnedTeam != "" && !r.PinnedTeam.In(r.Teams) {
		return fmt.Errorf("%w: pinned team %q", ErrUnknownTeam, r.PinnedTeam)
	}
	return nil
}
