package models

import (
	"time"
)

// Participant represents one connection's presence in a room
type Participant struct {
	// ID is unique per connection and is not reused across reconnects
	ID string `json:"id"`

	// Name is the display name chosen on join
	Name string `json:"name"`

	// Team is empty until the participant chooses one
	Team TeamID `json:"team,omitempty"`

	// JoinedAt is when the participant joined the room
	JoinedAt time.Time `json:"joinedAt"`
}

// HasTeam returns true if the participant has chosen a team
func (p *Participant) HasTeam() bool {
	return p.Team != ""
}
