package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/common/uuid"
	"github.com/KirkDiggler/teamtrivia/internal/dice"
	"github.com/KirkDiggler/teamtrivia/internal/handlers/web"
	"github.com/KirkDiggler/teamtrivia/internal/handlers/ws"
	"github.com/KirkDiggler/teamtrivia/internal/questions"
	answersRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/answers"
	eventRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/events"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
	roundRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/answers"
	"github.com/KirkDiggler/teamtrivia/internal/services/deadline"
	"github.com/KirkDiggler/teamtrivia/internal/services/directory"
	"github.com/KirkDiggler/teamtrivia/internal/services/game"
	"github.com/KirkDiggler/teamtrivia/internal/services/messaging"
	"github.com/KirkDiggler/teamtrivia/internal/services/participant"
	"github.com/KirkDiggler/teamtrivia/internal/services/ranking"
	"github.com/KirkDiggler/teamtrivia/internal/services/roster"
	"github.com/KirkDiggler/teamtrivia/internal/services/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/scheduler"
	"github.com/KirkDiggler/teamtrivia/internal/store"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const timeout = 10 * time.Second

type handlers struct {
	ws  *ws.Handler
	web *web.Handler
}

func serve(ctx context.Context, cfg *Config) error {
	logger := logrus.StandardLogger()
	if cfg.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.WithField("version", releaseVersion).Info("Starting teamtrivia")

	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	h, err := wire(cfg, st, logger)
	if err != nil {
		return err
	}

	prefix := strings.TrimSuffix(cfg.prefix, "/")

	mux := httprouter.New()
	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		logger.WithField("panic", i).Error("Handler panicked")
		http.Error(w, "An error has occurred. Please try again.", http.StatusInternalServerError)
	}

	h.web.Register(mux, prefix)
	mux.GET(prefix+"/ws", h.ws.ServeWS)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           mux,
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: timeout,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	h.ws.Close()

	logger.Info("Server has been shut down")
	return nil
}

func openStore(cfg *Config, logger logrus.FieldLogger) (store.Store, func(), error) {
	if cfg.store == storeMemory {
		logger.Warn("Using the in-memory store; rooms are lost on restart")
		return store.NewMemory(), func() {}, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.redisAddr,
		Password: cfg.redisPassword,
		DB:       cfg.redisDB,
	})

	st, err := store.NewRedis(&store.RedisConfig{
		RedisClient: redisClient,
		Namespace:   cfg.redisNamespace,
		Logger:      logger,
	})
	if err != nil {
		_ = redisClient.Close()
		return nil, nil, err
	}

	return st, func() { _ = redisClient.Close() }, nil
}

// wire builds the repositories and services on top of st
func wire(cfg *Config, st store.Store, logger logrus.FieldLogger) (*handlers, error) {
	rules := cfg.rules()
	clk := &clock.DefaultClock{}
	uuidGen := uuid.New()
	roller := dice.New(&dice.Config{})

	rooms, err := roomRepo.New(&roomRepo.Config{Store: st})
	if err != nil {
		return nil, fmt.Errorf("failed to create room repository: %w", err)
	}

	rosters, err := rosterRepo.New(&rosterRepo.Config{Store: st})
	if err != nil {
		return nil, fmt.Errorf("failed to create roster repository: %w", err)
	}

	rounds, err := roundRepo.New(&roundRepo.Config{Store: st})
	if err != nil {
		return nil, fmt.Errorf("failed to create round repository: %w", err)
	}

	answerBuffers, err := answersRepo.New(&answersRepo.Config{Store: st})
	if err != nil {
		return nil, fmt.Errorf("failed to create answers repository: %w", err)
	}

	events, err := eventRepo.New(&eventRepo.Config{Store: st})
	if err != nil {
		return nil, fmt.Errorf("failed to create event repository: %w", err)
	}

	bank, err := questions.New(&questions.Config{Roller: roller})
	if err != nil {
		return nil, fmt.Errorf("failed to create question bank: %w", err)
	}

	directorySvc, err := directory.New(&directory.Config{
		RoomRepo:   rooms,
		DiceRoller: roller,
		Clock:      clk,
		Rules:      rules,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create directory service: %w", err)
	}

	rosterSvc, err := roster.New(&roster.Config{
		RoomRepo:      rooms,
		RosterRepo:    rosters,
		Clock:         clk,
		UUIDGenerator: uuidGen,
		Rules:         rules,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create roster service: %w", err)
	}

	schedulerSvc, err := scheduler.New(&scheduler.Config{
		RoomRepo:   rooms,
		RoundRepo:  rounds,
		DiceRoller: roller,
		PinnedTeam: rules.PinnedTeam,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler service: %w", err)
	}

	answersSvc, err := answers.New(&answers.Config{
		AnswersRepo: answerBuffers,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create answers service: %w", err)
	}

	roundSvc, err := round.New(&round.Config{
		RoomRepo:   rooms,
		RosterRepo: rosters,
		RoundRepo:  rounds,
		EventRepo:  events,
		Answers:    answersSvc,
		Scheduler:  schedulerSvc,
		Bank:       bank,
		DiceRoller: roller,
		Clock:      clk,
		Rules:      rules,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create round service: %w", err)
	}

	deadlineSvc, err := deadline.New(&deadline.Config{
		RoomRepo: rooms,
		Clock:    clk,
		Duration: rules.GameDuration,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create deadline service: %w", err)
	}

	rankingSvc, err := ranking.New(&ranking.Config{
		RoomRepo:   rooms,
		RosterRepo: rosters,
		Teams:      rules.Teams,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ranking service: %w", err)
	}

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{Roller: roller})
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging service: %w", err)
	}

	gameSvc, err := game.New(&game.Config{
		Directory:     directorySvc,
		Roster:        rosterSvc,
		Scheduler:     schedulerSvc,
		Round:         roundSvc,
		Deadline:      deadlineSvc,
		Ranking:       rankingSvc,
		RoomRepo:      rooms,
		RoundRepo:     rounds,
		AnswersRepo:   answerBuffers,
		EventRepo:     events,
		Clock:         clk,
		UUIDGenerator: uuidGen,
		Rules:         rules,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game service: %w", err)
	}

	participantSvc, err := participant.New(&participant.Config{
		RoomRepo:    rooms,
		RosterRepo:  rosters,
		RoundRepo:   rounds,
		AnswersRepo: answerBuffers,
		EventRepo:   events,
		Round:       roundSvc,
		Scheduler:   schedulerSvc,
		Deadline:    deadlineSvc,
		Ranking:     rankingSvc,
		Messaging:   messagingSvc,
		Clock:       clk,
		Rules:       rules,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create participant service: %w", err)
	}

	wsHandler, err := ws.New(&ws.Config{
		GameService:  gameSvc,
		Participants: participantSvc,
		Messaging:    messagingSvc,
		Limit:        rate.Limit(cfg.rateLimit),
		Burst:        cfg.rateBurst,
		Tone:         messaging.MessageTone(cfg.tone),
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create websocket handler: %w", err)
	}

	webHandler, err := web.New(&web.Config{
		Directory: directorySvc,
		Version:   releaseVersion,
		PublicURL: cfg.publicURL,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create web handler: %w", err)
	}

	return &handlers{ws: wsHandler, web: webHandler}, nil
}
