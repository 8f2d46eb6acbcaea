package models

// TeamID identifies one of the fixed teams a participant can choose
type TeamID string

// DefaultTeams is the enumeration of teams a room offers
var DefaultTeams = []TeamID{"group1", "group2", "group3", "group4", "group5", "group6"}

// String returns the string representation of the team
func (t TeamID) String() string {
	return string(t)
}

// In returns true if the team is part of the given enumeration
func (t TeamID) In(teams []TeamID) bool {
	for _, candidate := range teams {
		if candidate == t {
			return true
		}
	}
	return false
}

// Team is a derived view: its members are the participants whose team
// assignment equals ID, and all of them share one token position.
type Team struct {
	ID        TeamID
	Position  int
	MemberIDs []string
}
