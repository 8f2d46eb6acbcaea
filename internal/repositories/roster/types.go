package roster

import "github.com/KirkDiggler/teamtrivia/internal/models"

type SaveParticipantInput struct {
	Code        string
	Participant *models.Participant
}

type GetParticipantInput struct {
	Code          string
	ParticipantID string
}

type SaveTokenInput struct {
	Code          string
	ParticipantID string
	Token         string
}

type GetTokenInput struct {
	Code          string
	ParticipantID string
}

type ListParticipantsInput struct {
	Code string
}

type WatchParticipantsInput struct {
	Code     string
	OnChange func([]*models.Participant)
}
