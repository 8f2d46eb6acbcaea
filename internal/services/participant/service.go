package participant

import (
	"context"
	"errors"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	answersRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/answers"
	eventRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/events"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
	roundRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/deadline"
	"github.com/KirkDiggler/teamtrivia/internal/services/messaging"
	"github.com/KirkDiggler/teamtrivia/internal/services/ranking"
	"github.com/KirkDiggler/teamtrivia/internal/services/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/scheduler"
	"github.com/KirkDiggler/teamtrivia/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	defaultPostRetry = time.Second
	inboxSize        = 64
)

type service struct {
	roomRepo    roomRepo.Repository
	rosterRepo  rosterRepo.Repository
	roundRepo   roundRepo.Repository
	answersRepo answersRepo.Repository
	eventRepo   eventRepo.Repository
	round       round.Service
	scheduler   scheduler.Service
	deadline    deadline.Service
	ranking     ranking.Service
	messaging   messaging.Service
	clock       clock.Clock
	rules       models.Rules
	postRetry   time.Duration
	logger      logrus.FieldLogger
}

// New creates a new participant driver service
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

	if cfg.AnswersRepo == nil {
		return nil, ErrNilAnswersRepo
	}

	if cfg.EventRepo == nil {
		return nil, ErrNilEventRepo
	}

	if cfg.Round == nil {
		return nil, ErrNilRound
	}

	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}

	if cfg.Deadline == nil {
		return nil, ErrNilDeadline
	}

	if cfg.Ranking == nil {
		return nil, ErrNilRanking
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	postRetry := cfg.PostRetry
	if postRetry <= 0 {
		postRetry = defaultPostRetry
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &service{
		roomRepo:    cfg.RoomRepo,
		rosterRepo:  cfg.RosterRepo,
		roundRepo:   cfg.RoundRepo,
		answersRepo: cfg.AnswersRepo,
		eventRepo:   cfg.EventRepo,
		round:       cfg.Round,
		scheduler:   cfg.Scheduler,
		deadline:    cfg.Deadline,
		ranking:     cfg.Ranking,
		messaging:   cfg.Messaging,
		clock:       cfg.Clock,
		rules:       cfg.Rules,
		postRetry:   postRetry,
		logger:      logger.WithField("service", "participant"),
	}, nil
}

// Run drives one participant until ctx is cancelled. Store deliveries and
// timer callbacks are queued onto a single goroutine, so the driver's mirror
// is never touched concurrently.
func (s *service) Run(ctx context.Context, input *RunInput) error {
	if input == nil || input.Code == "" || input.ParticipantID == "" {
		return errors.New("input, code and participant ID cannot be empty")
	}

	if input.Notifier == nil {
		return errors.New("notifier cannot be nil")
	}

	if _, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Code: input.Code}); err != nil {
		return err
	}

	if _, err := s.rosterRepo.GetParticipant(ctx, &rosterRepo.GetParticipantInput{
		Code:          input.Code,
		ParticipantID: input.ParticipantID,
	}); err != nil {
		return err
	}

	return s.run(ctx, &driver{
		service:       s,
		code:          input.Code,
		participantID: input.ParticipantID,
		notifier:      input.Notifier,
		logger: s.logger.WithFields(logrus.Fields{
			"room":        input.Code,
			"participant": input.ParticipantID,
		}),
	})
}

// Arbitrate drives a room's transitions on the arbiter's behalf until ctx
// is cancelled. It is bound to no connection and notifies nobody, so the
// room keeps moving while the arbiter's client is offline. Run one per room.
func (s *service) Arbitrate(ctx context.Context, input *ArbitrateInput) error {
	if input == nil || input.Code == "" {
		return errors.New("input and code cannot be empty")
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Code: input.Code})
	if err != nil {
		return err
	}

	return s.run(ctx, &driver{
		service:       s,
		code:          input.Code,
		participantID: room.ArbiterID,
		arbiter:       true,
		notifier:      silent{},
		logger: s.logger.WithFields(logrus.Fields{
			"room":    input.Code,
			"arbiter": room.ArbiterID,
		}),
	})
}

func (s *service) run(ctx context.Context, d *driver) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.ctx = ctx
	d.inbox = make(chan func(), inboxSize)
	defer d.stopAllTimers()

	if !d.arbiter {
		participants, err := s.rosterRepo.ListParticipants(ctx, &rosterRepo.ListParticipantsInput{Code: d.code})
		if err != nil {
			return err
		}
		d.onRoster(participants)
	}

	state, err := s.roomRepo.GetState(ctx, &roomRepo.GetStateInput{Code: d.code})
	if err != nil {
		return err
	}
	d.onState(state)

	subs, err := d.subscribe()
	defer func() {
		for _, sub := range subs {
			sub.Close()
		}
	}()
	if err != nil {
		return err
	}

	d.logger.WithField("arbiter", d.arbiter).Info("Driver started")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Driver stopped")
			return nil
		case fn := <-d.inbox:
			fn()
		}
	}
}

func (d *driver) subscribe() ([]store.Subscription, error) {
	var subs []store.Subscription

	sub, err := d.roomRepo.WatchState(d.ctx, &roomRepo.WatchStateInput{
		Code: d.code,
		OnChange: func(state *models.RoomState) {
			d.post(func() { d.onState(state) })
		},
	})
	if err != nil {
		return subs, err
	}
	subs = append(subs, sub)

	if d.arbiter {
		return d.subscribeArbiter(subs)
	}

	sub, err = d.rosterRepo.WatchParticipants(d.ctx, &rosterRepo.WatchParticipantsInput{
		Code: d.code,
		OnChange: func(participants []*models.Participant) {
			d.post(func() { d.onRoster(participants) })
		},
	})
	if err != nil {
		return subs, err
	}
	subs = append(subs, sub)

	sub, err = d.eventRepo.FollowEvents(d.ctx, &eventRepo.FollowEventsInput{
		Code: d.code,
		OnEvent: func(event *models.Event) {
			d.post(func() { d.onEvent(event) })
		},
		OnDecodeError: func(key string, err error) {
			d.logger.WithError(err).WithField("key", key).Warn("Skipping undecodable event")
		},
	})
	if err != nil {
		return subs, err
	}
	return append(subs, sub), nil
}

// subscribeArbiter adds the triggers that let the arbiter commit a roll or
// resolve a round as soon as the team acts
func (d *driver) subscribeArbiter(subs []store.Subscription) ([]store.Subscription, error) {
	sub, err := d.roundRepo.WatchRollRequests(d.ctx, &roundRepo.WatchRollRequestsInput{
		Code: d.code,
		OnChange: func(request *models.RollRequest) {
			d.post(func() { d.onRollRequest(request) })
		},
	})
	if err != nil {
		return subs, err
	}
	subs = append(subs, sub)

	sub, err = d.answersRepo.WatchAnswers(d.ctx, &answersRepo.WatchAnswersInput{
		Code: d.code,
		OnChange: func(answers map[string]*models.Answer) {
			d.post(func() { d.onAnswers(answers) })
		},
	})
	if err != nil {
		return subs, err
	}
	return append(subs, sub), nil
}
