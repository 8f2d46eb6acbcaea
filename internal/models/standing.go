package models

// TeamStanding is a team's place in the final ranking
type TeamStanding struct {
	Rank      int      `json:"rank"`
	Team      TeamID   `json:"team"`
	Position  int      `json:"position"`
	MemberIDs []string `json:"memberIds"`
}

// ParticipantStanding lists a participant with their team's position
type ParticipantStanding struct {
	Rank          int    `json:"rank"`
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	Team          TeamID `json:"team"`
	Position      int    `json:"position"`
}

// Standings is the ranking of a room
type Standings struct {
	Teams        []TeamStanding        `json:"teams"`
	Participants []ParticipantStanding `json:"participants"`
}
