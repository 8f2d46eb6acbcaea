package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind tags the variant carried by an Event
type EventKind string

const (
	EventKindDiceRolled     EventKind = "dice_rolled"
	EventKindQuestionPosted EventKind = "question_posted"
	EventKindRoundResolved  EventKind = "round_resolved"
)

// EventPayload is implemented only by the variants in this file
type EventPayload interface {
	Kind() EventKind
	isEventPayload()
}

// DiceRolled announces a committed roll
type DiceRolled struct {
	Dice     int `json:"dice"`
	Position int `json:"position"`
}

// QuestionPosted announces that the active team has a question. The
// question itself is read from the round record by the team only.
type QuestionPosted struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

// RoundResolved announces the scored outcome of a round
type RoundResolved struct {
	Correct  int  `json:"correct"`
	TeamSize int  `json:"teamSize"`
	Delta    int  `json:"delta"`
	Position int  `json:"position"`
	TimedOut bool `json:"timedOut"`
}

func (DiceRolled) Kind() EventKind     { return EventKindDiceRolled }
func (QuestionPosted) Kind() EventKind { return EventKindQuestionPosted }
func (RoundResolved) Kind() EventKind  { return EventKindRoundResolved }

func (DiceRolled) isEventPayload()     {}
func (QuestionPosted) isEventPayload() {}
func (RoundResolved) isEventPayload()  {}

// Event is an immutable notification of state already committed elsewhere
type Event struct {
	// ID is the log key assigned on append
	ID string `json:"-"`

	At          time.Time    `json:"at"`
	RoundNumber int          `json:"roundNumber"`
	TurnIndex   int          `json:"turnIndex"`
	Team        TeamID       `json:"team"`
	Payload     EventPayload `json:"-"`
}

type eventEnvelope struct {
	Kind        EventKind       `json:"kind"`
	At          time.Time       `json:"at"`
	RoundNumber int             `json:"roundNumber"`
	TurnIndex   int             `json:"turnIndex"`
	Team        TeamID          `json:"team"`
	Payload     json.RawMessage `json:"payload"`
}

// MarshalJSON writes the event with its kind tag
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("event has no payload")
	}
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventEnvelope{
		Kind:        e.Payload.Kind(),
		At:          e.At,
		RoundNumber: e.RoundNumber,
		TurnIndex:   e.TurnIndex,
		Team:        e.Team,
		Payload:     payload,
	})
}

// UnmarshalJSON decodes the variant named by the kind tag
func (e *Event) UnmarshalJSON(data []byte) error {
	var envelope eventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	var payload EventPayload
	switch envelope.Kind {
	case EventKindDiceRolled:
		var p DiceRolled
		if err := json.Unmarshal(envelope.Payload, &p); err != nil {
			return err
		}
		payload = p
	case EventKindQuestionPosted:
		var p QuestionPosted
		if err := json.Unmarshal(envelope.Payload, &p); err != nil {
			return err
		}
		payload = p
	case EventKindRoundResolved:
		var p RoundResolved
		if err := json.Unmarshal(envelope.Payload, &p); err != nil {
			return err
		}
		payload = p
	default:
		return fmt.Errorf("unknown event kind %q", envelope.Kind)
	}

	e.At = envelope.At
	e.RoundNumber = envelope.RoundNumber
	e.TurnIndex = envelope.TurnIndex
	e.Team = envelope.Team
	e.Payload = payload
	return nil
}
