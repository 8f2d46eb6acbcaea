package participant

import (
	"context"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	roundRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/deadline"
	"github.com/KirkDiggler/teamtrivia/internal/services/messaging"
	"github.com/KirkDiggler/teamtrivia/internal/services/ranking"
	"github.com/KirkDiggler/teamtrivia/internal/services/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/scheduler"
	"github.com/sirupsen/logrus"
)

// driver is the state of one Run or Arbitrate call. Every method runs on
// that call's goroutine.
type driver struct {
	*service

	ctx           context.Context
	code          string
	participantID string

	// arbiter drivers commit transitions and notify nobody
	arbiter  bool
	notifier Notifier
	inbox    chan func()
	logger   logrus.FieldLogger

	// Display mirror, never used for legality
	state *models.RoomState
	team  models.TeamID

	// Round the arbiter's timers are bound to
	bound      bool
	ref        models.RoundRef
	boundStart time.Time
	timers     []clock.Timer

	armedDeadline time.Time
	deadlineTimer clock.Timer
}

// silent is the notifier of the arbiter driver
type silent struct{}

func (silent) RosterChanged(context.Context, *RosterChanged)   {}
func (silent) PhaseChanged(context.Context, *PhaseChanged)     {}
func (silent) TurnChanged(context.Context, *TurnChanged)       {}
func (silent) DiceRolled(context.Context, *DiceRolled)         {}
func (silent) QuestionPosted(context.Context, *QuestionPosted) {}
func (silent) RoundResolved(context.Context, *RoundResolved)   {}
func (silent) GameEnded(context.Context, *GameEnded)           {}
func (silent) RankingReady(context.Context, *RankingReady)     {}

func (d *driver) post(fn func()) {
	select {
	case d.inbox <- fn:
	case <-d.ctx.Done():
	}
}

func (d *driver) current(ref models.RoundRef) bool {
	return d.state != nil && d.state.Phase.IsActive() && d.state.Ref() == ref
}

// after arms a timer bound to ref. The callback is dropped if the round
// moved on before it ran.
func (d *driver) after(delay time.Duration, ref models.RoundRef, fn func(models.RoundRef)) {
	timer := d.clock.AfterFunc(delay, func() {
		d.post(func() {
			if !d.current(ref) {
				d.logger.WithFields(logrus.Fields{
					"round":    ref.RoundNumber,
					"progress": ref.Progress,
				}).Debug("Dropping stale timer")
				return
			}
			fn(ref)
		})
	})
	d.timers = append(d.timers, timer)
}

func (d *driver) stopRoundTimers() {
	for _, timer := range d.timers {
		timer.Stop()
	}
	d.timers = nil
}

func (d *driver) stopDeadlineTimer() {
	if d.deadlineTimer != nil {
		d.deadlineTimer.Stop()
		d.deadlineTimer = nil
	}
	d.armedDeadline = time.Time{}
}

func (d *driver) stopAllTimers() {
	d.stopRoundTimers()
	d.stopDeadlineTimer()
}

func (d *driver) onRoster(participants []*models.Participant) {
	d.team = ""
	for _, p := range participants {
		if p.ID == d.participantID {
			d.team = p.Team
		}
	}
	d.notifier.RosterChanged(d.ctx, &RosterChanged{
		Code:         d.code,
		Participants: participants,
	})
}

func (d *driver) onState(state *models.RoomState) {
	prev := d.state
	d.state = state

	if prev == nil || prev.Phase != state.Phase {
		var previous models.Phase
		if prev != nil {
			previous = prev.Phase
		}
		d.notifier.PhaseChanged(d.ctx, &PhaseChanged{
			Code:     d.code,
			Phase:    state.Phase,
			Previous: previous,
			Deadline: state.Deadline,
		})
	}

	switch {
	case state.Phase.IsActive():
		newTurn := prev == nil || !prev.Phase.IsActive() ||
			prev.RoundNumber != state.RoundNumber || !prev.StartTime.Equal(state.StartTime)
		if newTurn {
			d.announceTurn(state)
		}
		d.armDeadline(state.Deadline)
		if d.arbiter {
			d.drive(state)
		}
	case state.Phase.IsEnded():
		d.stopAllTimers()
		d.bound = false
		if !d.arbiter && (prev == nil || !prev.Phase.IsEnded()) {
			d.announceEnd()
		}
	default:
		d.stopAllTimers()
		d.bound = false
	}
}

func (d *driver) announceTurn(state *models.RoomState) {
	team, err := state.CurrentTeam()
	if err != nil {
		d.logger.WithError(err).Warn("Active room has no current team")
		return
	}
	d.notifier.TurnChanged(d.ctx, &TurnChanged{
		Code:        d.code,
		Team:        team,
		TurnIndex:   state.TurnIndex,
		RoundNumber: state.RoundNumber,
		YourTurn:    d.team != "" && d.team == team,
	})
}

// armDeadline schedules this participant's own end-of-game callback
func (d *driver) armDeadline(at time.Time) {
	if at.IsZero() || (d.deadlineTimer != nil && at.Equal(d.armedDeadline)) {
		return
	}
	d.stopDeadlineTimer()
	d.armedDeadline = at
	d.deadlineTimer = d.clock.AfterFunc(d.deadline.Remaining(at), func() {
		d.post(func() { d.endGame(at) })
	})
}

func (d *driver) endGame(at time.Time) {
	if d.state == nil || !d.state.Phase.IsActive() {
		return
	}
	output, err := d.deadline.End(d.ctx, &deadline.EndInput{Code: d.code, Deadline: at})
	if err != nil {
		d.logger.WithError(err).Warn("Failed to end game at deadline")
		return
	}
	if output.Applied {
		d.logger.Info("Ended game at deadline")
	}
}

func (d *driver) announceEnd() {
	d.notifier.GameEnded(d.ctx, &GameEnded{Code: d.code, At: d.clock.Now()})

	output, err := d.ranking.GetStandings(d.ctx, &ranking.GetStandingsInput{Code: d.code})
	if err != nil {
		d.logger.WithError(err).Warn("Failed to compute standings")
		return
	}

	ready := &RankingReady{Code: d.code, Standings: output.Standings}
	if d.messaging != nil {
		if msg, err := d.messaging.GetGameEndedMessage(d.ctx, &messaging.GetGameEndedMessageInput{
			Standings: output.Standings,
		}); err == nil {
			ready.Announcement = msg.Message
		}
	}
	d.notifier.RankingReady(d.ctx, ready)
}

// drive rebinds the arbiter's work to the round the state describes
func (d *driver) drive(state *models.RoomState) {
	ref := state.Ref()
	if d.bound && d.ref == ref && d.boundStart.Equal(state.StartTime) {
		return
	}
	d.stopRoundTimers()
	d.bound, d.ref, d.boundStart = true, ref, state.StartTime

	switch ref.Progress {
	case models.ProgressIdle:
		d.after(d.rules.RollTimeout, ref, d.autoRoll)
		d.commitRoll(ref, false)
	case models.ProgressRolling:
		d.postQuestion(ref)
	case models.ProgressQuestionPosted:
		d.after(d.rules.AnswerTimeout, ref, func(ref models.RoundRef) { d.resolve(ref, true) })
		d.resolve(ref, false)
	case models.ProgressCollecting:
		d.resolve(ref, false)
	case models.ProgressResolved:
		d.advance(ref)
	}
}

func (d *driver) autoRoll(ref models.RoundRef) {
	d.commitRoll(ref, true)
}

func (d *driver) commitRoll(ref models.RoundRef, onBehalf bool) {
	_, err := d.round.CommitRoll(d.ctx, &round.CommitRollInput{
		Code:        d.code,
		ActorID:     d.participantID,
		RoundNumber: ref.RoundNumber,
		OnBehalf:    onBehalf,
	})
	if err != nil {
		d.logger.WithError(err).Warn("Failed to commit roll")
		if onBehalf {
			d.after(d.postRetry, ref, d.autoRoll)
		}
	}
}

func (d *driver) postQuestion(ref models.RoundRef) {
	_, err := d.round.PostQuestion(d.ctx, &round.PostQuestionInput{
		Code:        d.code,
		ActorID:     d.participantID,
		RoundNumber: ref.RoundNumber,
	})
	if err != nil {
		d.logger.WithError(err).Warn("Failed to post question, retrying")
		d.after(d.postRetry, ref, d.postQuestion)
	}
}

func (d *driver) resolve(ref models.RoundRef, timedOut bool) {
	_, err := d.round.TryResolve(d.ctx, &round.TryResolveInput{
		Code:        d.code,
		ActorID:     d.participantID,
		RoundNumber: ref.RoundNumber,
		TimedOut:    timedOut,
	})
	if err != nil {
		d.logger.WithError(err).Warn("Failed to resolve round, retrying")
		d.after(d.postRetry, ref, func(ref models.RoundRef) { d.resolve(ref, timedOut) })
	}
}

func (d *driver) advance(ref models.RoundRef) {
	_, err := d.scheduler.Advance(d.ctx, &scheduler.AdvanceInput{
		Code:            d.code,
		ActorID:         d.participantID,
		FromRoundNumber: ref.RoundNumber,
	})
	if err != nil {
		d.logger.WithError(err).Warn("Failed to advance rotation, retrying")
		d.after(d.postRetry, ref, d.advance)
	}
}

func (d *driver) onRollRequest(request *models.RollRequest) {
	if d.state == nil || !d.state.Phase.IsActive() || d.state.Progress != models.ProgressIdle {
		return
	}
	if request.RoundNumber != d.state.RoundNumber {
		return
	}
	d.commitRoll(d.state.Ref(), false)
}

func (d *driver) onAnswers(answers map[string]*models.Answer) {
	if len(answers) == 0 || d.state == nil || !d.state.Phase.IsActive() {
		return
	}
	if d.state.Progress != models.ProgressQuestionPosted {
		return
	}
	d.resolve(d.state.Ref(), false)
}

func (d *driver) onEvent(event *models.Event) {
	if d.state == nil || d.state.Phase.IsForming() || event.At.Before(d.state.StartTime) {
		d.logger.WithField("event", event.ID).Debug("Ignoring event from another session")
		return
	}

	switch payload := event.Payload.(type) {
	case models.DiceRolled:
		n := &DiceRolled{
			Code:        d.code,
			Team:        event.Team,
			RoundNumber: event.RoundNumber,
			Dice:        payload.Dice,
			Position:    payload.Position,
		}
		if d.messaging != nil {
			if msg, err := d.messaging.GetDiceRollMessage(d.ctx, &messaging.GetDiceRollMessageInput{
				Team:     event.Team,
				Dice:     payload.Dice,
				Sides:    d.rules.DiceSides,
				Position: payload.Position,
			}); err == nil {
				n.Announcement = msg.Message
			}
		}
		d.notifier.DiceRolled(d.ctx, n)
	case models.QuestionPosted:
		d.deliverQuestion(event, payload)
	case models.RoundResolved:
		n := &RoundResolved{
			Code:        d.code,
			Team:        event.Team,
			RoundNumber: event.RoundNumber,
			Result:      payload,
		}
		if d.messaging != nil {
			if msg, err := d.messaging.GetRoundResultMessage(d.ctx, &messaging.GetRoundResultMessageInput{
				Team:   event.Team,
				Result: payload,
			}); err == nil {
				n.Announcement = msg.Message
			}
		}
		d.notifier.RoundResolved(d.ctx, n)
	}
}

// deliverQuestion shows the question to the answering team only, and only
// while its round is still taking answers
func (d *driver) deliverQuestion(event *models.Event, payload models.QuestionPosted) {
	if d.team == "" || event.Team != d.team {
		return
	}

	state, err := d.roomRepo.GetState(d.ctx, &roomRepo.GetStateInput{Code: d.code})
	if err != nil {
		d.logger.WithError(err).Warn("Failed to read state for question")
		return
	}
	if !state.Phase.IsActive() || state.RoundNumber != event.RoundNumber || !state.Progress.AcceptsAnswers() {
		return
	}

	record, err := d.roundRepo.GetRound(d.ctx, &roundRepo.GetRoundInput{Code: d.code})
	if err != nil {
		d.logger.WithError(err).Warn("Failed to read posted question")
		return
	}
	if record.RoundNumber != event.RoundNumber || record.Question == nil {
		return
	}

	d.notifier.QuestionPosted(d.ctx, &QuestionPosted{
		Code:        d.code,
		Team:        event.Team,
		RoundNumber: event.RoundNumber,
		Question:    *record.Question,
		ExpiresAt:   payload.ExpiresAt,
	})
}
