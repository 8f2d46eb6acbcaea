package ws

import (
	"context"

	"github.com/KirkDiggler/teamtrivia/internal/services/participant"
)

// client implements participant.Notifier by writing to its connection
var _ participant.Notifier = (*client)(nil)

func (c *client) RosterChanged(_ context.Context, n *participant.RosterChanged) {
	c.enqueue(&Outbound{Type: TypeRoster, Data: &RosterData{Participants: n.Participants}})
}

func (c *client) PhaseChanged(_ context.Context, n *participant.PhaseChanged) {
	c.enqueue(&Outbound{Type: TypePhase, Data: &PhaseData{
		Phase:    n.Phase,
		Previous: n.Previous,
		Deadline: n.Deadline,
	}})
}

func (c *client) TurnChanged(_ context.Context, n *participant.TurnChanged) {
	c.enqueue(&Outbound{Type: TypeTurn, Data: &TurnData{
		Team:        n.Team,
		TurnIndex:   n.TurnIndex,
		RoundNumber: n.RoundNumber,
		YourTurn:    n.YourTurn,
	}})
}

func (c *client) DiceRolled(_ context.Context, n *participant.DiceRolled) {
	c.enqueue(&Outbound{Type: TypeDice, Data: &DiceData{
		Team:         n.Team,
		RoundNumber:  n.RoundNumber,
		Dice:         n.Dice,
		Position:     n.Position,
		Announcement: n.Announcement,
	}})
}

func (c *client) QuestionPosted(_ context.Context, n *participant.QuestionPosted) {
	c.enqueue(&Outbound{Type: TypeQuestion, Data: &QuestionData{
		Team:        n.Team,
		RoundNumber: n.RoundNumber,
		Question:    n.Question,
		ExpiresAt:   n.ExpiresAt,
	}})
}

func (c *client) RoundResolved(_ context.Context, n *participant.RoundResolved) {
	c.enqueue(&Outbound{Type: TypeResult, Data: &ResultData{
		Team:         n.Team,
		RoundNumber:  n.RoundNumber,
		Result:       n.Result,
		Announcement: n.Announcement,
	}})
}

func (c *client) GameEnded(_ context.Context, n *participant.GameEnded) {
	c.enqueue(&Outbound{Type: TypeEnded, Data: &EndedData{At: n.At}})
}

func (c *client) RankingReady(_ context.Context, n *participant.RankingReady) {
	c.enqueue(&Outbound{Type: TypeRanking, Data: &RankingData{
		Standings:    n.Standings,
		Announcement: n.Announcement,
	}})
}
