package round

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/dice"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/questions"
	eventRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/events"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
	roundRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/answers"
	"github.com/KirkDiggler/teamtrivia/internal/services/roster"
	"github.com/KirkDiggler/teamtrivia/internal/services/scheduler"
	"github.com/sirupsen/logrus"
)

type service struct {
	roomRepo   roomRepo.Repository
	rosterRepo rosterRepo.Repository
	roundRepo  roundRepo.Repository
	eventRepo  eventRepo.Repository
	answers    answers.Service
	scheduler  scheduler.Service
	bank       questions.Bank
	diceRoller dice.Roller
	clock      clock.Clock
	rules      models.Rules
	logger     logrus.FieldLogger

	// rooms holds a *sync.Mutex per room code serializing arbiter commits
	rooms sync.Map
}

// New creates a new round engine
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}

	if cfg.RosterRepo == nil {
		return nil, ErrNilRosterRepo
	}

	if cfg.RoundRepo == nil {
		return nil, ErrNilRoundRepo
	}

	if cfg.EventRepo == nil {
		return nil, ErrNilEventRepo
	}

	if cfg.Answers == nil {
		return nil, ErrNilAnswers
	}

	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}

	if cfg.Bank == nil {
		return nil, ErrNilBank
	}

	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &service{
		roomRepo:   cfg.RoomRepo,
		rosterRepo: cfg.RosterRepo,
		roundRepo:  cfg.RoundRepo,
		eventRepo:  cfg.EventRepo,
		answers:    cfg.Answers,
		scheduler:  cfg.Scheduler,
		bank:       cfg.Bank,
		diceRoller: cfg.DiceRoller,
		clock:      cfg.Clock,
		rules:      cfg.Rules,
		logger:     logger.WithField("service", "round"),
	}, nil
}

// skip logs a lost race. These are expected and never surface as errors.
func (s *service) skip(op, code string, reason error, state *models.RoomState) {
	entry := s.logger.WithFields(logrus.Fields{
		"op":     op,
		"room":   code,
		"reason": reason,
	})
	if state != nil {
		entry = entry.WithFields(logrus.Fields{
			"round":    state.RoundNumber,
			"progress": state.Progress,
			"phase":    state.Phase,
		})
	}
	entry.Debug("Skipped transition")
}

// lock serializes arbiter transitions for a room within this process
func (s *service) lock(code string) func() {
	mu, _ := s.rooms.LoadOrStore(code, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// expect checks the fresh state is the live round the caller believes it is
func expect(state *models.RoomState, roundNumber int, progress ...models.Progress) error {
	if !state.Phase.IsActive() || state.RoundNumber != roundNumber {
		return models.ErrStaleRound
	}
	for _, p := range progress {
		if state.Progress == p {
			return nil
		}
	}
	return models.ErrStaleRound
}

func (s *service) requireArbiter(ctx context.Context, code, actorID string) error {
	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Code: code})
	if err != nil {
		return err
	}
	if room.ArbiterID != actorID {
		return models.ErrNotArbiter
	}
	return nil
}

func (s *service) freshState(ctx context.Context, code string) (*models.RoomState, error) {
	return s.roomRepo.GetState(ctx, &roomRepo.GetStateInput{Code: code})
}

func (s *service) setProgress(ctx context.Context, code string, progress models.Progress) error {
	return s.roomRepo.UpdateState(ctx, &roomRepo.UpdateStateInput{
		Code:   code,
		Update: roomRepo.StateUpdate{Progress: &progress},
	})
}

func (s *service) appendEvent(ctx context.Context, code string, state *models.RoomState, team models.TeamID, payload models.EventPayload) error {
	_, err := s.eventRepo.AppendEvent(ctx, &eventRepo.AppendEventInput{
		Code: code,
		Event: &models.Event{
			At:          s.clock.Now(),
			RoundNumber: state.RoundNumber,
			TurnIndex:   state.TurnIndex,
			Team:        team,
			Payload:     payload,
		},
	})
	return err
}

// RequestRoll records that the active team wants to roll. Requests for the
// same round overwrite each other.
func (s *service) RequestRoll(ctx context.Context, input *RequestRollInput) (*RequestRollOutput, error) {
	if input == nil || input.Code == "" || input.ParticipantID == "" {
		return nil, errors.New("input, code and participant ID cannot be empty")
	}

	state, err := s.freshState(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	if err := expect(state, state.RoundNumber, models.ProgressIdle); err != nil {
		s.skip("request_roll", input.Code, err, state)
		return &RequestRollOutput{Skipped: err, RoundNumber: state.RoundNumber}, nil
	}

	participant, err := s.rosterRepo.GetParticipant(ctx, &rosterRepo.GetParticipantInput{
		Code:          input.Code,
		ParticipantID: input.ParticipantID,
	})
	if err != nil {
		return nil, err
	}

	team, err := state.CurrentTeam()
	if err != nil {
		return nil, err
	}

	if participant.Team != team {
		s.skip("request_roll", input.Code, models.ErrNotYourTurn, state)
		return &RequestRollOutput{Skipped: models.ErrNotYourTurn, RoundNumber: state.RoundNumber}, nil
	}

	if err := s.roundRepo.SaveRollRequest(ctx, &roundRepo.SaveRollRequestInput{
		Code: input.Code,
		Request: &models.RollRequest{
			RoundNumber:   state.RoundNumber,
			ParticipantID: input.ParticipantID,
			RequestedAt:   s.clock.Now(),
		},
	}); err != nil {
		return nil, err
	}

	return &RequestRollOutput{Applied: true, RoundNumber: state.RoundNumber}, nil
}

// CommitRoll rolls the die for the current round and posts its question.
// A round record left by an interrupted commit is reused, so the die is
// rolled and applied at most once per round.
func (s *service) CommitRoll(ctx context.Context, input *CommitRollInput) (*CommitRollOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	defer s.lock(input.Code)()

	if err := s.requireArbiter(ctx, input.Code, input.ActorID); err != nil {
		return nil, err
	}

	state, err := s.freshState(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	if err := expect(state, input.RoundNumber, models.ProgressIdle); err != nil {
		s.skip("commit_roll", input.Code, err, state)
		return &CommitRollOutput{Skipped: err}, nil
	}

	if !input.OnBehalf {
		request, err := s.roundRepo.GetRollRequest(ctx, &roundRepo.GetRollRequestInput{Code: input.Code})
		if err != nil && !errors.Is(err, roundRepo.ErrRequestNotFound) {
			return nil, err
		}
		if request == nil || request.RoundNumber != state.RoundNumber {
			s.skip("commit_roll", input.Code, models.ErrStaleRound, state)
			return &CommitRollOutput{Skipped: models.ErrStaleRound}, nil
		}
	}

	team, err := state.CurrentTeam()
	if err != nil {
		return nil, err
	}

	round, err := s.rolledRound(ctx, input.Code, state, team)
	if err != nil {
		return nil, err
	}

	if err := s.roomRepo.SetPosition(ctx, &roomRepo.SetPositionInput{
		Code:     input.Code,
		Team:     team,
		Position: round.RolledPosition,
	}); err != nil {
		return nil, err
	}

	if err := s.setProgress(ctx, input.Code, models.ProgressRolling); err != nil {
		return nil, err
	}

	if err := s.appendEvent(ctx, input.Code, state, team, models.DiceRolled{
		Dice:     round.Dice,
		Position: round.RolledPosition,
	}); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"room":     input.Code,
		"round":    state.RoundNumber,
		"team":     team,
		"dice":     round.Dice,
		"position": round.RolledPosition,
		"onBehalf": input.OnBehalf,
	}).Info("Dice committed")

	output := &CommitRollOutput{
		Applied:  true,
		Dice:     round.Dice,
		Position: round.RolledPosition,
	}

	posted, err := s.postQuestion(ctx, &PostQuestionInput{
		Code:        input.Code,
		ActorID:     input.ActorID,
		RoundNumber: input.RoundNumber,
	})
	if err != nil {
		// The round stays in Rolling and PostQuestion can be retried
		s.logger.WithError(err).WithField("room", input.Code).Warn("Failed to post question")
		return output, nil
	}
	output.Posted = posted.Applied

	return output, nil
}

// rolledRound returns the round record for the current round, rolling and
// saving it first if no commit got that far yet
func (s *service) rolledRound(ctx context.Context, code string, state *models.RoomState, team models.TeamID) (*models.Round, error) {
	existing, err := s.roundRepo.GetRound(ctx, &roundRepo.GetRoundInput{Code: code})
	if err != nil && !errors.Is(err, roundRepo.ErrRoundNotFound) {
		return nil, err
	}
	if existing != nil && existing.RoundNumber == state.RoundNumber && existing.Dice > 0 {
		return existing, nil
	}

	positions, err := s.roomRepo.GetPositions(ctx, &roomRepo.GetPositionsInput{Code: code})
	if err != nil {
		return nil, err
	}

	base := positions[team]
	value := s.diceRoller.Roll(s.rules.DiceSides)
	round := &models.Round{
		RoundNumber:    state.RoundNumber,
		TurnIndex:      state.TurnIndex,
		Team:           team,
		Dice:           value,
		BasePosition:   base,
		RolledPosition: max(0, base+value),
		RolledAt:       s.clock.Now(),
	}

	if err := s.roundRepo.SaveRound(ctx, &roundRepo.SaveRoundInput{Code: code, Round: round}); err != nil {
		return nil, err
	}
	return round, nil
}

// PostQuestion fetches a question for a rolled round. The dice effects are
// already committed, so a slow or failing bank leaves the round in Rolling.
func (s *service) PostQuestion(ctx context.Context, input *PostQuestionInput) (*PostQuestionOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	defer s.lock(input.Code)()

	return s.postQuestion(ctx, input)
}

func (s *service) postQuestion(ctx context.Context, input *PostQuestionInput) (*PostQuestionOutput, error) {
	if err := s.requireArbiter(ctx, input.Code, input.ActorID); err != nil {
		return nil, err
	}

	state, err := s.freshState(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	if err := expect(state, input.RoundNumber, models.ProgressRolling); err != nil {
		s.skip("post_question", input.Code, err, state)
		return &PostQuestionOutput{Skipped: err}, nil
	}

	round, err := s.roundRepo.GetRound(ctx, &roundRepo.GetRoundInput{Code: input.Code})
	if err != nil {
		return nil, err
	}
	if round.RoundNumber != state.RoundNumber {
		return nil, fmt.Errorf("round record is for round %d, state is at %d", round.RoundNumber, state.RoundNumber)
	}

	question, err := s.bank.FetchRandomQuestion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch question: %w", err)
	}

	// The fetch may have taken a while
	state, err = s.freshState(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if err := expect(state, input.RoundNumber, models.ProgressRolling); err != nil {
		s.skip("post_question", input.Code, err, state)
		return &PostQuestionOutput{Skipped: err}, nil
	}

	if err := s.roundRepo.SaveAnswerKey(ctx, &roundRepo.SaveAnswerKeyInput{
		Code: input.Code,
		Key: &models.AnswerKey{
			RoundNumber: state.RoundNumber,
			Key:         question.CorrectKey,
		},
	}); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	round.Question = &question.Question
	round.PostedAt = now
	if err := s.roundRepo.SaveRound(ctx, &roundRepo.SaveRoundInput{Code: input.Code, Round: round}); err != nil {
		return nil, err
	}

	if err := s.setProgress(ctx, input.Code, models.ProgressQuestionPosted); err != nil {
		return nil, err
	}

	if err := s.appendEvent(ctx, input.Code, state, round.Team, models.QuestionPosted{
		ExpiresAt: now.Add(s.rules.AnswerTimeout),
	}); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"room":  input.Code,
		"round": state.RoundNumber,
		"team":  round.Team,
	}).Info("Question posted")

	return &PostQuestionOutput{
		Applied:  true,
		Question: round.Question,
	}, nil
}

// SubmitAnswer buffers an answer from a member of the active team. Answers
// from other teams or for a round that moved on are dropped.
func (s *service) SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error) {
	if input == nil || input.Code == "" || input.ParticipantID == "" {
		return nil, errors.New("input, code and participant ID cannot be empty")
	}

	state, err := s.freshState(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	if err := expect(state, state.RoundNumber, models.ProgressQuestionPosted, models.ProgressCollecting); err != nil {
		s.skip("submit_answer", input.Code, err, state)
		return &SubmitAnswerOutput{Skipped: err, RoundNumber: state.RoundNumber}, nil
	}

	participant, err := s.rosterRepo.GetParticipant(ctx, &rosterRepo.GetParticipantInput{
		Code:          input.Code,
		ParticipantID: input.ParticipantID,
	})
	if err != nil {
		return nil, err
	}

	team, err := state.CurrentTeam()
	if err != nil {
		return nil, err
	}

	if participant.Team != team {
		s.skip("submit_answer", input.Code, models.ErrNotYourTurn, state)
		return &SubmitAnswerOutput{Skipped: models.ErrNotYourTurn, RoundNumber: state.RoundNumber}, nil
	}

	choice := ""
	if strings.TrimSpace(input.Choice) != "" {
		choice = models.ChoiceKey(input.Choice)
	}

	if err := s.answers.Buffer(ctx, &answers.BufferInput{
		Code: input.Code,
		Answer: &models.Answer{
			ParticipantID: input.ParticipantID,
			RoundNumber:   state.RoundNumber,
			Choice:        choice,
			SubmittedAt:   s.clock.Now(),
		},
	}); err != nil {
		return nil, err
	}

	return &SubmitAnswerOutput{Applied: true, RoundNumber: state.RoundNumber}, nil
}

// TryResolve scores the round once every member answered or the timer
// fired, applies the delta, announces the result and advances the rotation.
// A round found in Collecting is resumed.
func (s *service) TryResolve(ctx context.Context, input *TryResolveInput) (*TryResolveOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	defer s.lock(input.Code)()

	if err := s.requireArbiter(ctx, input.Code, input.ActorID); err != nil {
		return nil, err
	}

	state, err := s.freshState(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	if err := expect(state, input.RoundNumber, models.ProgressQuestionPosted, models.ProgressCollecting); err != nil {
		s.skip("try_resolve", input.Code, err, state)
		return &TryResolveOutput{Skipped: err}, nil
	}

	team, err := state.CurrentTeam()
	if err != nil {
		return nil, err
	}

	participants, err := s.rosterRepo.ListParticipants(ctx, &rosterRepo.ListParticipantsInput{Code: input.Code})
	if err != nil {
		return nil, err
	}
	members := roster.MembersOf(team, participants)

	collected, err := s.answers.Collect(ctx, &answers.CollectInput{
		Code:        input.Code,
		RoundNumber: state.RoundNumber,
		MemberIDs:   members,
	})
	if err != nil {
		return nil, err
	}

	if state.Progress == models.ProgressQuestionPosted && !input.TimedOut && !collected.Complete {
		return &TryResolveOutput{Pending: true}, nil
	}

	if state.Progress == models.ProgressQuestionPosted {
		if err := s.setProgress(ctx, input.Code, models.ProgressCollecting); err != nil {
			return nil, err
		}
	}

	if input.TimedOut {
		s.recordTimeouts(ctx, input.Code, state.RoundNumber, members, collected.Answers)
	}

	key, err := s.roundRepo.GetAnswerKey(ctx, &roundRepo.GetAnswerKeyInput{Code: input.Code})
	if err != nil {
		return nil, err
	}
	if key.RoundNumber != state.RoundNumber {
		return nil, fmt.Errorf("answer key is for round %d, state is at %d", key.RoundNumber, state.RoundNumber)
	}

	round, err := s.roundRepo.GetRound(ctx, &roundRepo.GetRoundInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	score := s.answers.Score(&answers.ScoreInput{
		MemberIDs: members,
		Answers:   collected.Answers,
		Key:       key.Key,
		Position:  round.RolledPosition,
	})

	if err := s.roomRepo.SetPosition(ctx, &roomRepo.SetPositionInput{
		Code:     input.Code,
		Team:     team,
		Position: score.Position,
	}); err != nil {
		return nil, err
	}

	if err := s.setProgress(ctx, input.Code, models.ProgressResolved); err != nil {
		return nil, err
	}

	result := models.RoundResolved{
		Correct:  score.Correct,
		TeamSize: score.TeamSize,
		Delta:    score.Delta,
		Position: score.Position,
		TimedOut: input.TimedOut,
	}
	if err := s.appendEvent(ctx, input.Code, state, team, result); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"room":     input.Code,
		"round":    state.RoundNumber,
		"team":     team,
		"correct":  score.Correct,
		"teamSize": score.TeamSize,
		"delta":    score.Delta,
		"position": score.Position,
		"timedOut": input.TimedOut,
	}).Info("Round resolved")

	if err := s.answers.Clear(ctx, &answers.ClearInput{Code: input.Code}); err != nil {
		return nil, err
	}

	if _, err := s.scheduler.Advance(ctx, &scheduler.AdvanceInput{
		Code:            input.Code,
		ActorID:         input.ActorID,
		FromRoundNumber: state.RoundNumber,
	}); err != nil {
		return nil, err
	}

	return &TryResolveOutput{
		Applied: true,
		Result:  &result,
	}, nil
}

// recordTimeouts buffers an empty answer for every member who did not answer
func (s *service) recordTimeouts(ctx context.Context, code string, roundNumber int, members []string, collected map[string]*models.Answer) {
	for _, id := range members {
		if _, ok := collected[id]; ok {
			continue
		}
		if err := s.answers.Buffer(ctx, &answers.BufferInput{
			Code: code,
			Answer: &models.Answer{
				ParticipantID: id,
				RoundNumber:   roundNumber,
				SubmittedAt:   s.clock.Now(),
			},
		}); err != nil {
			s.logger.WithError(err).WithField("participant", id).Warn("Failed to record timed out answer")
		}
	}
}
