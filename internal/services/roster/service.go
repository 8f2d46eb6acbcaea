package roster

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/teamtrivia/internal/common/clock"
	"github.com/KirkDiggler/teamtrivia/internal/common/uuid"
	"github.com/KirkDiggler/teamtrivia/internal/models"
	roomRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/room"
	rosterRepo "github.com/KirkDiggler/teamtrivia/internal/repositories/roster"
	"github.com/sirupsen/logrus"
)

type service struct {
	roomRepo      roomRepo.Repository
	rosterRepo    rosterRepo.Repository
	clock         clock.Clock
	uuidGenerator uuid.UUID
	tokens        uuid.UUID
	rules         models.Rules
	logger        logrus.FieldLogger
}

// New creates a new roster service
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

	tokens := cfg.TokenGenerator
	if tokens == nil {
		tokens = uuid.New()
	}

	return &service{
		roomRepo:      cfg.RoomRepo,
		rosterRepo:    cfg.RosterRepo,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
		tokens:        tokens,
		rules:         cfg.Rules,
		logger:        logger.WithField("service", "roster"),
	}, nil
}

// Join adds a participant to a room. Joining is open while the room is
// forming; an active room admits spectators only when late join is allowed.
func (s *service) Join(ctx context.Context, input *JoinInput) (*JoinOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	state, err := s.roomRepo.GetState(ctx, &roomRepo.GetStateInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	if input.ParticipantID != "" {
		_, err := s.rosterRepo.GetParticipant(ctx, &rosterRepo.GetParticipantInput{
			Code:          input.Code,
			ParticipantID: input.ParticipantID,
		})
		if err == nil {
			return nil, models.ErrRejoinDenied
		}
		if !errors.Is(err, models.ErrParticipantNotFound) {
			return nil, err
		}
	}

	spectator := false
	switch {
	case state.Phase.IsForming():
	case state.Phase.IsActive() && s.rules.AllowLateJoin:
		spectator = true
	default:
		return nil, models.ErrGameAlreadyStarted
	}

	id := input.ParticipantID
	if id == "" {
		id = s.uuidGenerator.NewUUID()
	}

	participant := &models.Participant{
		ID:       id,
		Name:     strings.TrimSpace(input.Name),
		JoinedAt: s.clock.Now(),
	}

	if err := s.rosterRepo.SaveParticipant(ctx, &rosterRepo.SaveParticipantInput{
		Code:        input.Code,
		Participant: participant,
	}); err != nil {
		return nil, err
	}

	token := s.tokens.NewUUID()
	if err := s.rosterRepo.SaveToken(ctx, &rosterRepo.SaveTokenInput{
		Code:          input.Code,
		ParticipantID: id,
		Token:         token,
	}); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"room":        input.Code,
		"participant": id,
		"spectator":   spectator,
	}).Info("Participant joined")

	return &JoinOutput{
		Participant: participant,
		Spectator:   spectator,
		Token:       token,
	}, nil
}

// Rejoin restores a participant's record and team for a reconnecting
// client that presents the token issued at join
func (s *service) Rejoin(ctx context.Context, input *RejoinInput) (*JoinOutput, error) {
	if input == nil || input.Code == "" || input.ParticipantID == "" {
		return nil, errors.New("input, code and participant ID cannot be empty")
	}

	state, err := s.roomRepo.GetState(ctx, &roomRepo.GetStateInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	token, err := s.rosterRepo.GetToken(ctx, &rosterRepo.GetTokenInput{
		Code:          input.Code,
		ParticipantID: input.ParticipantID,
	})
	if err != nil && !errors.Is(err, models.ErrParticipantNotFound) {
		return nil, err
	}

	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(input.Token)) != 1 {
		s.logger.WithFields(logrus.Fields{
			"room":        input.Code,
			"participant": input.ParticipantID,
		}).Warn("Rejoin refused")
		return nil, models.ErrRejoinDenied
	}

	participant, err := s.rosterRepo.GetParticipant(ctx, &rosterRepo.GetParticipantInput{
		Code:          input.Code,
		ParticipantID: input.ParticipantID,
	})
	if err != nil {
		return nil, err
	}

	return &JoinOutput{
		Participant: participant,
		Spectator:   !state.Phase.IsForming() && !participant.HasTeam(),
		Rejoined:    true,
		Token:       token,
	}, nil
}

// ChooseTeam assigns a participant to a team. Once the rotation is built
// the assignment is frozen and the call is a no-op.
func (s *service) ChooseTeam(ctx context.Context, input *ChooseTeamInput) (*ChooseTeamOutput, error) {
	if input == nil || input.Code == "" || input.ParticipantID == "" {
		return nil, errors.New("input, code and participant ID cannot be empty")
	}

	if !input.Team.In(s.rules.Teams) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownTeam, input.Team)
	}

	state, err := s.roomRepo.GetState(ctx, &roomRepo.GetStateInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	if !state.Phase.IsForming() {
		s.logger.WithFields(logrus.Fields{
			"room":        input.Code,
			"participant": input.ParticipantID,
			"phase":       state.Phase,
		}).Debug("Ignoring team change outside forming phase")
		return &ChooseTeamOutput{Applied: false}, nil
	}

	participant, err := s.rosterRepo.GetParticipant(ctx, &rosterRepo.GetParticipantInput{
		Code:          input.Code,
		ParticipantID: input.ParticipantID,
	})
	if err != nil {
		return nil, err
	}

	if participant.Team == input.Team {
		return &ChooseTeamOutput{Applied: true}, nil
	}

	participant.Team = input.Team
	if err := s.rosterRepo.SaveParticipant(ctx, &rosterRepo.SaveParticipantInput{
		Code:        input.Code,
		Participant: participant,
	}); err != nil {
		return nil, err
	}

	return &ChooseTeamOutput{Applied: true}, nil
}

// ListTeams returns the roster and the teams that have members
func (s *service) ListTeams(ctx context.Context, input *ListTeamsInput) (*ListTeamsOutput, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	participants, err := s.rosterRepo.ListParticipants(ctx, &rosterRepo.ListParticipantsInput{Code: input.Code})
	if err != nil {
		return nil, err
	}

	return &ListTeamsOutput{
		Participants: participants,
		Teams:        NonEmptyTeams(s.rules.Teams, participants),
	}, nil
}

// NonEmptyTeams derives team membership from the roster. Teams without
// members are left out; order follows the enumeration.
func NonEmptyTeams(enumeration []models.TeamID, participants []*models.Participant) []models.Team {
	members := make(map[models.TeamID][]string)
	for _, p := range participants {
		if p.HasTeam() {
			members[p.Team] = append(members[p.Team], p.ID)
		}
	}

	teams := make([]models.Team, 0, len(members))
	for _, id := range enumeration {
		if len(members[id]) > 0 {
			teams = append(teams, models.Team{ID: id, MemberIDs: members[id]})
		}
	}
	return teams
}

// MembersOf returns the IDs of the participants on team
func MembersOf(team models.TeamID, participants []*models.Participant) []string {
	if team == "" {
		return nil
	}
	var ids []string
	for _, p := range participants {
		if p.Team == team {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
