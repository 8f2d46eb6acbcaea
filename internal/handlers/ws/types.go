package ws

import (
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/services/game"
	"github.com/KirkDiggler/teamtrivia/internal/services/messaging"
	"github.com/KirkDiggler/teamtrivia/internal/services/participant"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Config holds the configuration for the websocket handler
type Config struct {
	GameService  game.Service
	Participants participant.Service
	Messaging    messaging.Service

	// Limit and Burst bound the intents one connection may send.
	// Defaults to ten per second with a burst of ten.
	Limit rate.Limit
	Burst int

	// Tone is the preferred tone of join and error messages (optional)
	Tone messaging.MessageTone

	Logger logrus.FieldLogger
}

// Intents a client may send
const (
	IntentCreate     = "create"
	IntentJoin       = "join"
	IntentChooseTeam = "choose_team"
	IntentStart      = "start"
	IntentRoll       = "roll"
	IntentAnswer     = "answer"
	IntentForceEnd   = "force_end"
	IntentStandings  = "standings"
)

// Message types sent to a client
const (
	TypeJoined    = "joined"
	TypeAck       = "ack"
	TypeError     = "error"
	TypeStandings = "standings"
	TypeRoster    = "roster"
	TypePhase     = "phase"
	TypeTurn      = "turn"
	TypeDice      = "dice"
	TypeQuestion  = "question"
	TypeResult    = "result"
	TypeEnded     = "ended"
	TypeRanking   = "ranking"
)

// Inbound is an intent sent by a client
type Inbound struct {
	Type string `json:"type"`

	// Code is the room code for join and standings
	Code string `json:"code,omitempty"`

	// Name is the participant's display name for create and join
	Name string `json:"name,omitempty"`

	// RoomName names a room on create
	RoomName string `json:"roomName,omitempty"`

	// ParticipantID and Token rejoin as an existing participant
	ParticipantID string `json:"participantId,omitempty"`
	Token         string `json:"token,omitempty"`

	Team models.TeamID `json:"team,omitempty"`

	// Choice is the answer; null or missing means no answer
	Choice *string `json:"choice,omitempty"`
}

// Outbound is a message sent to a client
type Outbound struct {
	Type string `json:"type"`

	// Intent is the intent a reply answers
	Intent string `json:"intent,omitempty"`

	Data any `json:"data,omitempty"`
}

type JoinedData struct {
	Room        *models.Room        `json:"room"`
	Participant *models.Participant `json:"participant"`
	Spectator   bool                `json:"spectator"`
	Rejoined    bool                `json:"rejoined"`
	Message     string              `json:"message,omitempty"`

	// Token lets this client rejoin as the participant. Only the joining
	// connection receives it.
	Token string `json:"token,omitempty"`
}

type AckData struct {
	Applied bool `json:"applied"`

	// Skipped says why a request was dropped
	Skipped string `json:"skipped,omitempty"`
}

type StartedData struct {
	Rotation  []models.TeamID `json:"rotation"`
	StartTime time.Time       `json:"startTime"`
	Deadline  time.Time       `json:"deadline"`
}

type ErrorData struct {
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

type RosterData struct {
	Participants []*models.Participant `json:"participants"`
}

type PhaseData struct {
	Phase    models.Phase `json:"phase"`
	Previous models.Phase `json:"previous,omitempty"`
	Deadline time.Time    `json:"deadline"`
}

type TurnData struct {
	Team        models.TeamID `json:"team"`
	TurnIndex   int           `json:"turnIndex"`
	RoundNumber int           `json:"roundNumber"`
	YourTurn    bool          `json:"yourTurn"`
}

type DiceData struct {
	Team         models.TeamID `json:"team"`
	RoundNumber  int           `json:"roundNumber"`
	Dice         int           `json:"dice"`
	Position     int           `json:"position"`
	Announcement string        `json:"announcement,omitempty"`
}

type QuestionData struct {
	Team        models.TeamID   `json:"team"`
	RoundNumber int             `json:"roundNumber"`
	Question    models.Question `json:"question"`
	ExpiresAt   time.Time       `json:"expiresAt"`
}

type ResultData struct {
	Team         models.TeamID        `json:"team"`
	RoundNumber  int                  `json:"roundNumber"`
	Result       models.RoundResolved `json:"result"`
	Announcement string               `json:"announcement,omitempty"`
}

type EndedData struct {
	At time.Time `json:"at"`
}

type RankingData struct {
	Standings    *models.Standings `json:"standings"`
	Announcement string            `json:"announcement,omitempty"`
}
