package models

import (
	"time"
)

// Phase represents the lifecycle phase of a room
type Phase string

const (
	// PhaseForming indicates the room is gathering participants and teams
	PhaseForming Phase = "forming"

	// PhaseActive indicates the rotation is frozen and rounds are being played
	PhaseActive Phase = "active"

	// PhaseEnded indicates the deadline elapsed or the arbiter ended the game
	PhaseEnded Phase = "ended"
)

// IsForming returns true if the room still accepts joins and team changes
func (p Phase) IsForming() bool {
	return p == PhaseForming
}

// IsActive returns true if rounds are being played
func (p Phase) IsActive() bool {
	return p == PhaseActive
}

// IsEnded returns true if the game is over
func (p Phase) IsEnded() bool {
	return p == PhaseEnded
}

// Room holds the immutable facts about a game session
type Room struct {
	// Code is the human-shareable room identifier
	Code string `json:"code"`

	// Name is the display name of the participant that created the room
	Name string `json:"name"`

	// ArbiterID is the participant allowed to commit once-only transitions
	ArbiterID string `json:"arbiterId"`

	// CreatedAt is when the room was created
	CreatedAt time.Time `json:"createdAt"`
}

// RoomState is the mutable, authoritative turn state of a room
type RoomState struct {
	// Phase is the lifecycle phase of the room
	Phase Phase `json:"phase"`

	// Rotation is the team order, fixed when the room becomes active
	Rotation []TeamID `json:"rotation"`

	// TurnIndex points into Rotation and wraps modulo its length
	TurnIndex int `json:"turnIndex"`

	// RoundNumber counts rounds since the game started and never wraps.
	// Timers, requests, answers and answer keys are bound to it.
	RoundNumber int `json:"roundNumber"`

	// Progress is the lifecycle tag of the live round
	Progress Progress `json:"progress"`

	// StartTime is when the room became active. Events older than this
	// belong to a previous session.
	StartTime time.Time `json:"startTime"`

	// Deadline is when the game ends regardless of rotation state
	Deadline time.Time `json:"deadline"`
}

// CurrentTeam returns the team whose turn it is
func (s *RoomState) CurrentTeam() (TeamID, error) {
	if len(s.Rotation) == 0 {
		return "", ErrRotationEmpty
	}
	return s.Rotation[s.TurnIndex%len(s.Rotation)], nil
}

// Ref returns the identity of the live round
func (s *RoomState) Ref() RoundRef {
	return RoundRef{
		RoundNumber: s.RoundNumber,
		Progress:    s.Progress,
	}
}
