package round

import "github.com/KirkDiggler/teamtrivia/internal/models"

type SaveRoundInput struct {
	Code  string
	Round *models.Round
}

type GetRoundInput struct {
	Code string
}

type SaveRollRequestInput struct {
	Code    string
	Request *models.RollRequest
}

type GetRollRequestInput struct {
	Code string
}

type SaveAnswerKeyInput struct {
	Code string
	Key  *models.AnswerKey
}

type GetAnswerKeyInput struct {
	Code string
}

type ClearRoundInput struct {
	Code string
}

type WatchRollRequestsInput struct {
	Code     string
	OnChange func(*models.RollRequest)
}
