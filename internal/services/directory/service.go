package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/dice"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	"github.com/sirupsen/logrus"
)

// codeAlphabet is uppercase base36
const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const defaultMaxAttempts = 20

type service struct {
	roomRepo    roomRepo.Repository
	diceRoller  dice.Roller
	clock       clock.Clock
	rules       models.Rules
	maxAttempts int
	logger      logrus.FieldLogger
}

// New creates a new directory service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
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

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &service{
		roomRepo:    cfg.RoomRepo,
		diceRoller:  cfg.DiceRoller,
		clock:       cfg.Clock,
		rules:       cfg.Rules,
		maxAttempts: maxAttempts,
		logger:      logger.WithField("service", "directory"),
	}, nil
}

// NormalizeCode maps user input to the stored form of a room code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) generateCode() string {
	var b strings.Builder
	for i := 0; i < s.rules.CodeLength; i++ {
		b.WriteByte(codeAlphabet[s.diceRoller.Roll(len(codeAlphabet))-1])
	}
	return b.String()
}

// CreateRoom allocates an unused code and writes the room in Forming phase
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil || input.ArbiterID == "" {
		return nil, errors.New("input and arbiter ID cannot be empty")
	}

	var code string
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		candidate := s.generateCode()
		exists, err := s.roomRepo.Exists(ctx, &roomRepo.ExistsInput{Code: candidate})
		if err != nil {
			return nil, err
		}
		if !exists {
			code = candidate
			break
		}
		s.logger.WithField("code", candidate).Debug("Room code taken, regenerating")
	}
	if code == "" {
		return nil, ErrCodeExhausted
	}

	room := &models.Room{
		Code:      code,
		Name:      input.Name,
		ArbiterID: input.ArbiterID,
		CreatedAt: s.clock.Now(),
	}

	err := s.roomRepo.CreateRoom(ctx, &roomRepo.CreateRoomInput{
		Room: room,
		State: &models.RoomState{
			Phase:    models.PhaseForming,
			Rotation: []models.TeamID{},
			Progress: models.ProgressIdle,
		},
		Teams: s.rules.Teams,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"room":    code,
		"arbiter": input.ArbiterID,
	}).Info("Room created")

	return &CreateRoomOutput{
		Room: room,
	}, nil
}

// ResolveRoom looks up a room by code
func (s *service) ResolveRoom(ctx context.Context, input *ResolveRoomInput) (*ResolveRoomOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	code := NormalizeCode(input.Code)
	if code == "" {
		return nil, models.ErrRoomNotFound
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Code: code})
	if err != nil {
		return nil, err
	}

	return &ResolveRoomOutput{
		Room: room,
		Path: roomRepo.Path(code),
	}, nil
}
