package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/common/uuid"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	answersRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/answers"
	eventRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/events"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	roundRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/deadline"
	"github.com/KirkDiggler/teamtrivia/internal/services/directory"
	"github.com/KirkDiggler/teamtrivia/internal/services/ranking"
	"github.com/KirkDiggler/teamtrivia/internal/services/roster"
	"github.com/KirkDiggler/teamtrivia/internal/services/round"
	"github.com/KirkDiggler/teamtrivia/internal/services/scheduler"
	"github.com/sirupsen/logrus"
)

// service implements the Service interface
type service struct {
	directory   directory.Service
	roster      roster.Service
	scheduler   scheduler.Service
	round       round.Service
	deadline    deadline.Service
	ranking     ranking.Service
	roomRepo    roomRepo.Repository
	roundRepo   roundRepo.Repository
	answersRepo answersRepo.Repository
	eventRepo   eventRepo.Repository
	clock       clock.Clock
	uuid        uuid.UUID
	rules       models.Rules
	logger      logrus.FieldLogger
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Directory == nil {
		return nil, ErrNilDirectory
	}

	if cfg.Roster == nil {
		return nil, ErrNilRoster
	}

	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}

	if cfg.Round == nil {
		return nil, ErrNilRound
	}

	if cfg.Deadline == nil {
		return nil, ErrNilDeadline
	}

	if cfg.Ranking == nil {
		return nil, ErrNilRanking
	}

	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
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

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &service{
		directory:   cfg.Directory,
		roster:      cfg.Roster,
		scheduler:   cfg.Scheduler,
		round:       cfg.Round,
		deadline:    cfg.Deadline,
		ranking:     cfg.Ranking,
		roomRepo:    cfg.RoomRepo,
		roundRepo:   cfg.RoundRepo,
		answersRepo: cfg.AnswersRepo,
		eventRepo:   cfg.EventRepo,
		clock:       cfg.Clock,
		uuid:        cfg.UUIDGenerator,
		rules:       cfg.Rules,
		logger:      logger.WithField("service", "game"),
	}, nil
}

// CreateRoom opens a new room and joins its creator as the arbiter
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	arbiterID := s.uuid.NewUUID()

	created, err := s.directory.CreateRoom(ctx, &directory.CreateRoomInput{
		ArbiterID: arbiterID,
		Name:      input.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	joined, err := s.roster.Join(ctx, &roster.JoinInput{
		Code:          created.Room.Code,
		Name:          input.ArbiterName,
		ParticipantID: arbiterID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join creator: %w", err)
	}

	return &CreateRoomOutput{
		Room:        created.Room,
		Participant: joined.Participant,
		Token:       joined.Token,
	}, nil
}

// JoinRoom adds a participant to a room by its shareable code
func (s *service) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	resolved, err := s.directory.ResolveRoom(ctx, &directory.ResolveRoomInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	var joined *roster.JoinOutput
	if input.ParticipantID != "" {
		joined, err = s.roster.Rejoin(ctx, &roster.RejoinInput{
			Code:          resolved.Room.Code,
			ParticipantID: input.ParticipantID,
			Token:         input.Token,
		})
	} else {
		joined, err = s.roster.Join(ctx, &roster.JoinInput{
			Code: resolved.Room.Code,
			Name: input.Name,
		})
	}
	if err != nil {
		return nil, err
	}

	return &JoinRoomOutput{
		Room:        resolved.Room,
		Participant: joined.Participant,
		Spectator:   joined.Spectator,
		Rejoined:    joined.Rejoined,
		Token:       joined.Token,
	}, nil
}

// ChooseTeam assigns a participant to a team while the room is forming
func (s *service) ChooseTeam(ctx context.Context, input *ChooseTeamInput) (*ChooseTeamOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	output, err := s.roster.ChooseTeam(ctx, &roster.ChooseTeamInput{
		Code:          input.Code,
		ParticipantID: input.ParticipantID,
		Team:          input.Team,
	})
	if err != nil {
		return nil, err
	}

	return &ChooseTeamOutput{Applied: output.Applied}, nil
}

// StartGame builds the rotation from the teams that have members, wipes the
// previous session and moves the room to Active in one state write
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	if room.ArbiterID != input.ActorID {
		return nil, models.ErrNotArbiter
	}

	state, err := s.roomRepo.GetState(ctx, &roomRepo.GetStateInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	if state.Phase.IsActive() {
		return nil, models.ErrGameAlreadyStarted
	}

	teams, err := s.roster.ListTeams(ctx, &roster.ListTeamsInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	assigned := 0
	for _, participant := range teams.Participants {
		if participant.HasTeam() {
			assigned++
		}
	}
	if assigned < s.rules.MinPlayers {
		return nil, fmt.Errorf("%w: %d of %d", models.ErrNotEnoughPlayers, assigned, s.rules.MinPlayers)
	}

	rotation, err := s.scheduler.BuildRotation(ctx, &scheduler.BuildRotationInput{Teams: teams.Teams})
	if err != nil {
		return nil, err
	}

	if err := s.clearSession(ctx, input.Code); err != nil {
		return nil, err
	}

	startTime := s.clock.Now()
	deadlineAt := s.deadline.Compute()
	active := models.PhaseActive
	progress := models.ProgressIdle
	zero := 0
	if err := s.roomRepo.UpdateState(ctx, &roomRepo.UpdateStateInput{
		Code: input.Code,
		Update: roomRepo.StateUpdate{
			Phase:       &active,
			Rotation:    rotation.Rotation,
			TurnIndex:   &zero,
			RoundNumber: &zero,
			Progress:    &progress,
			StartTime:   &startTime,
			Deadline:    &deadlineAt,
		},
	}); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"room":     input.Code,
		"rotation": rotation.Rotation,
		"deadline": deadlineAt,
	}).Info("Game started")

	return &StartGameOutput{
		Rotation:  rotation.Rotation,
		StartTime: startTime,
		Deadline:  deadlineAt,
	}, nil
}

// clearSession drops what a previous game left behind
func (s *service) clearSession(ctx context.Context, code string) error {
	if err := s.eventRepo.ClearEvents(ctx, &eventRepo.ClearEventsInput{Code: code}); err != nil {
		return err
	}

	if err := s.answersRepo.ClearAnswers(ctx, &answersRepo.ClearAnswersInput{Code: code}); err != nil {
		return err
	}

	if err := s.roundRepo.ClearRound(ctx, &roundRepo.ClearRoundInput{Code: code}); err != nil {
		return err
	}

	return s.roomRepo.ResetPositions(ctx, &roomRepo.ResetPositionsInput{
		Code:  code,
		Teams: s.rules.Teams,
	})
}

// RollDice asks to roll for the participant's team. The arbiter's driver
// commits the roll.
func (s *service) RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	output, err := s.round.RequestRoll(ctx, &round.RequestRollInput{
		Code:          input.Code,
		ParticipantID: input.ParticipantID,
	})
	if err != nil {
		return nil, err
	}

	return &RollDiceOutput{
		Applied: output.Applied,
		Skipped: output.Skipped,
	}, nil
}

// SubmitAnswer records the participant's answer to the posted question
func (s *service) SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	output, err := s.round.SubmitAnswer(ctx, &round.SubmitAnswerInput{
		Code:          input.Code,
		ParticipantID: input.ParticipantID,
		Choice:        input.Choice,
	})
	if err != nil {
		return nil, err
	}

	return &SubmitAnswerOutput{
		Applied: output.Applied,
		Skipped: output.Skipped,
	}, nil
}

// ForceEnd lets the arbiter end the game early
func (s *service) ForceEnd(ctx context.Context, input *ForceEndInput) (*ForceEndOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	output, err := s.deadline.ForceEnd(ctx, &deadline.ForceEndInput{
		Code:    input.Code,
		ActorID: input.ActorID,
	})
	if err != nil {
		return nil, err
	}

	return &ForceEndOutput{Applied: output.Applied}, nil
}

// GetStandings returns the current ranking of a room
func (s *service) GetStandings(ctx context.Context, input *GetStandingsInput) (*GetStandingsOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	output, err := s.ranking.GetStandings(ctx, &ranking.GetStandingsInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	return &GetStandingsOutput{Standings: output.Standings}, nil
}
