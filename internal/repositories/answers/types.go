package answers

import "github.com/KirkDiggler/teamtrivia/internal/models"

type SaveAnswerInput struct {
	Code   string
	Answer *models.Answer
}

type ListAnswersInput struct {
	Code string

	// RoundNumber filters out answers left over from other rounds
	RoundNumber int
}

type ClearAnswersInput struct {
	Code string
}

type WatchAnswersInput struct {
	Code     string
	OnChange func(map[string]*models.Answer)
}
