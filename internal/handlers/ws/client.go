package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/services/game"
	"github.com/KirkDiggler/teamtrivia/internal/services/messaging"
	"github.com/KirkDiggler/teamtrivia/internal/services/participant"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const writeWait = 10 * time.Second

// client is one websocket connection. Intents are handled on the read
// goroutine; notifications arrive from the participant driver.
type client struct {
	*Handler

	conn    *websocket.Conn
	send    chan *Outbound
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc
	logger  logrus.FieldLogger

	code          string
	participantID string
	driver        sync.WaitGroup
}

func (c *client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WithError(err).Debug("Connection closed")
			}
			return
		}

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.replyError("", ErrBadMessage)
			continue
		}

		if !c.limiter.Allow() {
			c.replyError(msg.Type, ErrRateLimited)
			continue
		}

		c.handle(&msg)
	}
}

func (c *client) writePump() {
	failed := false
	for msg := range c.send {
		if failed {
			continue
		}

		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.WithError(err).Debug("Write failed")
			failed = true
			c.cancel()
			_ = c.conn.Close()
		}
	}

	if !failed {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = c.conn.Close()
	}
}

// enqueue hands a message to the write pump
func (c *client) enqueue(msg *Outbound) {
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	}
}

func (c *client) reply(intent, typ string, data any) {
	c.enqueue(&Outbound{Type: typ, Intent: intent, Data: data})
}

func (c *client) replyError(intent string, err error) {
	text := err.Error()
	out, msgErr := c.messaging.GetErrorMessage(c.ctx, &messaging.GetErrorMessageInput{
		Err:           err,
		PreferredTone: c.tone,
	})
	if msgErr == nil {
		text = out.Message
	}

	c.reply(intent, TypeError, &ErrorData{Message: text})
}

func (c *client) joined() bool {
	return c.participantID != ""
}

func (c *client) handle(msg *Inbound) {
	switch msg.Type {
	case IntentCreate:
		c.handleCreate(msg)
	case IntentJoin:
		c.handleJoin(msg)
	case IntentStandings:
		c.handleStandings(msg)
	case IntentChooseTeam, IntentStart, IntentRoll, IntentAnswer, IntentForceEnd:
		if !c.joined() {
			c.replyError(msg.Type, ErrNotJoined)
			return
		}
		c.handleTurn(msg)
	default:
		c.replyError(msg.Type, ErrUnknownIntent)
	}
}

func (c *client) handleCreate(msg *Inbound) {
	if c.joined() {
		c.replyError(msg.Type, ErrAlreadyJoined)
		return
	}

	output, err := c.gameService.CreateRoom(c.ctx, &game.CreateRoomInput{
		Name:        msg.RoomName,
		ArbiterName: msg.Name,
	})
	if err != nil {
		c.replyError(msg.Type, err)
		return
	}

	c.reply(msg.Type, TypeJoined, &JoinedData{
		Room:        output.Room,
		Participant: output.Participant,
		Token:       output.Token,
	})
	c.startDriver(output.Room.Code, output.Participant.ID)
}

func (c *client) handleJoin(msg *Inbound) {
	if c.joined() {
		c.replyError(msg.Type, ErrAlreadyJoined)
		return
	}

	output, err := c.gameService.JoinRoom(c.ctx, &game.JoinRoomInput{
		Code:          msg.Code,
		Name:          msg.Name,
		ParticipantID: msg.ParticipantID,
		Token:         msg.Token,
	})
	if err != nil {
		data := &ErrorData{Message: err.Error()}
		if out, msgErr := c.messaging.GetJoinErrorMessage(c.ctx, &messaging.GetJoinErrorMessageInput{
			ParticipantName: msg.Name,
			Err:             err,
		}); msgErr == nil {
			data.Title = out.Title
			data.Message = out.Message
		}
		c.reply(msg.Type, TypeError, data)
		return
	}

	data := &JoinedData{
		Room:        output.Room,
		Participant: output.Participant,
		Spectator:   output.Spectator,
		Rejoined:    output.Rejoined,
		Token:       output.Token,
	}
	phase := models.PhaseForming
	if output.Spectator {
		phase = models.PhaseActive
	}
	if out, err := c.messaging.GetJoinMessage(c.ctx, &messaging.GetJoinMessageInput{
		ParticipantName: output.Participant.Name,
		Phase:           phase,
		PreferredTone:   c.tone,
	}); err == nil {
		data.Message = out.Message
	}

	c.reply(msg.Type, TypeJoined, data)
	c.startDriver(output.Room.Code, output.Participant.ID)
}

func (c *client) handleStandings(msg *Inbound) {
	code := msg.Code
	if code == "" {
		code = c.code
	}

	output, err := c.gameService.GetStandings(c.ctx, &game.GetStandingsInput{Code: code})
	if err != nil {
		c.replyError(msg.Type, err)
		return
	}

	c.reply(msg.Type, TypeStandings, &RankingData{Standings: output.Standings})
}

func (c *client) handleTurn(msg *Inbound) {
	var (
		data any
		err  error
	)

	switch msg.Type {
	case IntentChooseTeam:
		var output *game.ChooseTeamOutput
		output, err = c.gameService.ChooseTeam(c.ctx, &game.ChooseTeamInput{
			Code:          c.code,
			ParticipantID: c.participantID,
			Team:          msg.Team,
		})
		if err == nil {
			data = &AckData{Applied: output.Applied}
		}
	case IntentStart:
		var output *game.StartGameOutput
		output, err = c.gameService.StartGame(c.ctx, &game.StartGameInput{
			Code:    c.code,
			ActorID: c.participantID,
		})
		if err == nil {
			data = &StartedData{
				Rotation:  output.Rotation,
				StartTime: output.StartTime,
				Deadline:  output.Deadline,
			}
		}
	case IntentRoll:
		var output *game.RollDiceOutput
		output, err = c.gameService.RollDice(c.ctx, &game.RollDiceInput{
			Code:          c.code,
			ParticipantID: c.participantID,
		})
		if err == nil {
			data = ack(output.Applied, output.Skipped)
		}
	case IntentAnswer:
		choice := ""
		if msg.Choice != nil {
			choice = *msg.Choice
		}

		var output *game.SubmitAnswerOutput
		output, err = c.gameService.SubmitAnswer(c.ctx, &game.SubmitAnswerInput{
			Code:          c.code,
			ParticipantID: c.participantID,
			Choice:        choice,
		})
		if err == nil {
			data = ack(output.Applied, output.Skipped)
		}
	case IntentForceEnd:
		var output *game.ForceEndOutput
		output, err = c.gameService.ForceEnd(c.ctx, &game.ForceEndInput{
			Code:    c.code,
			ActorID: c.participantID,
		})
		if err == nil {
			data = &AckData{Applied: output.Applied}
		}
	}

	if err != nil {
		c.logger.WithError(err).WithField("intent", msg.Type).Debug("Intent failed")
		c.replyError(msg.Type, err)
		return
	}

	c.reply(msg.Type, TypeAck, data)
}

func ack(applied bool, skipped error) *AckData {
	data := &AckData{Applied: applied}
	if skipped != nil {
		data.Skipped = skipped.Error()
	}
	return data
}

// startDriver runs the participant driver with this connection as its
// notifier. A driver that fails closes the connection so the client can
// rejoin.
func (c *client) startDriver(code, participantID string) {
	c.code = code
	c.participantID = participantID
	c.Handler.register(c)

	logger := c.logger.WithFields(logrus.Fields{
		"room":        code,
		"participant": participantID,
	})

	c.driver.Add(1)
	go func() {
		defer c.driver.Done()

		err := c.participants.Run(c.ctx, &participant.RunInput{
			Code:          code,
			ParticipantID: participantID,
			Notifier:      c,
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("Participant driver failed")
			c.replyError("", err)
			_ = c.conn.Close()
		}
	}()
}
