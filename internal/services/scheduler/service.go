package scheduler

import (
	"context"
	"errors"

	"github.com/KirkDiggler/teamtrivia/internal/dice"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	roundRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/round"
	"github.com/sirupsen/logrus"
)

type service struct {
	roomRepo   roomRepo.Repository
	roundRepo  roundRepo.Repository
	diceRoller dice.Roller
	pinnedTeam models.TeamID
	logger     logrus.FieldLogger
}

// New creates a new scheduler
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}

	if cfg.RoundRepo == nil {
		return nil, ErrNilRoundRepo
	}

	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &service{
		roomRepo:   cfg.RoomRepo,
		roundRepo:  cfg.RoundRepo,
		diceRoller: cfg.DiceRoller,
		pinnedTeam: cfg.PinnedTeam,
		logger:     logger.WithField("service", "scheduler"),
	}, nil
}

// BuildRotation shuffles the teams that have members. A pinned team with
// members is moved to the front after the shuffle.
func (s *service) BuildRotation(ctx context.Context, input *BuildRotationInput) (*BuildRotationOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	seen := make(map[models.TeamID]bool)
	rotation := make([]models.TeamID, 0, len(input.Teams))
	for _, team := range input.Teams {
		if len(team.MemberIDs) == 0 || seen[team.ID] {
			continue
		}
		seen[team.ID] = true
		rotation = append(rotation, team.ID)
	}

	if len(rotation) == 0 {
		return nil, models.ErrRotationEmpty
	}

	s.diceRoller.Shuffle(len(rotation), func(i, j int) {
		rotation[i], rotation[j] = rotation[j], rotation[i]
	})

	if s.pinnedTeam != "" && seen[s.pinnedTeam] {
		for i, team := range rotation {
			if team == s.pinnedTeam {
				copy(rotation[1:i+1], rotation[:i])
				rotation[0] = s.pinnedTeam
				break
			}
		}
	}

	return &BuildRotationOutput{
		Rotation: rotation,
	}, nil
}

// CurrentTeam returns the team whose turn it is, from a fresh read
func (s *service) CurrentTeam(ctx context.Context, input *CurrentTeamInput) (*CurrentTeamOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	state, err := s.roomRepo.GetState(ctx, &roomRepo.GetStateInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	team, err := state.CurrentTeam()
	if err != nil {
		return nil, err
	}

	return &CurrentTeamOutput{
		Team:        team,
		TurnIndex:   state.TurnIndex,
		RoundNumber: state.RoundNumber,
		Progress:    state.Progress,
	}, nil
}

// Advance moves the rotation on after a resolved round. Only the arbiter
// may advance, and only once per round: the state must still be the
// resolved round the call is attributed to.
func (s *service) Advance(ctx context.Context, input *AdvanceInput) (*AdvanceOutput, error) {
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

	if !state.Phase.IsActive() || state.RoundNumber != input.FromRoundNumber || state.Progress != models.ProgressResolved {
		s.logger.WithFields(logrus.Fields{
			"room":     input.Code,
			"round":    input.FromRoundNumber,
			"current":  state.RoundNumber,
			"progress": state.Progress,
		}).Debug("Skipping advance of stale round")
		return &AdvanceOutput{
			Skipped:     models.ErrStaleRound,
			TurnIndex:   state.TurnIndex,
			RoundNumber: state.RoundNumber,
		}, nil
	}

	if len(state.Rotation) == 0 {
		return nil, models.ErrRotationEmpty
	}

	// The round record is cleared before the turn moves on
	if err := s.roundRepo.ClearRound(ctx, &roundRepo.ClearRoundInput{Code: input.Code}); err != nil {
		return nil, err
	}

	turnIndex := (state.TurnIndex + 1) % len(state.Rotation)
	roundNumber := state.RoundNumber + 1
	progress := models.ProgressIdle
	if err := s.roomRepo.UpdateState(ctx, &roomRepo.UpdateStateInput{
		Code: input.Code,
		Update: roomRepo.StateUpdate{
			TurnIndex:   &turnIndex,
			RoundNumber: &roundNumber,
			Progress:    &progress,
		},
	}); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"room":      input.Code,
		"round":     roundNumber,
		"turnIndex": turnIndex,
		"team":      state.Rotation[turnIndex],
	}).Info("Rotation advanced")

	return &AdvanceOutput{
		Applied:     true,
		TurnIndex:   turnIndex,
		RoundNumber: roundNumber,
	}, nil
}
