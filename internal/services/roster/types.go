package roster

import (
	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/common/uuid"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
	"github.com/sirupsen/logrus"
)

// Config holds the dependencies of the roster service
type Config struct {
	RoomRepo      roomRepo.Repository
	RosterRepo    rosterRepo.Repository
	Clock         clock.Clock
	UUIDGenerator uuid.UUID

	// TokenGenerator issues rejoin tokens; random ids are used when nil
	TokenGenerator uuid.UUID
	Rules          models.Rules
	Logger         logrus.FieldLogger
}

type JoinInput struct {
	Code string
	Name string

	// ParticipantID is generated when empty. Naming an ID that is
	// already in the room is refused; reconnects go through Rejoin.
	ParticipantID string
}

type RejoinInput struct {
	Code          string
	ParticipantID string
	Token         string
}

type JoinOutput struct {
	Participant *models.Participant

	// Spectator is true for a late joiner who cannot enter the rotation
	Spectator bool

	// Rejoined is true when the participant was already in the room
	Rejoined bool

	// Token proves ownership of the participant ID on reconnect. It is
	// returned only to the joining client and never broadcast.
	Token string
}

type ChooseTeamInput struct {
	Code          string
	ParticipantID string
	Team          models.TeamID
}

type ChooseTeamOutput struct {
	// Applied is false when the room no longer accepts team changes
	Applied bool
}

type ListTeamsInput struct {
	Code string
}

type ListTeamsOutput struct {
	Participants []*models.Participant

	// Teams holds every team with at least one member, in enumeration order
	Teams []models.Team
}
