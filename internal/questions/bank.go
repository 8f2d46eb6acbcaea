package questions

//go:generate mockgen -package=mocks -destination=mocks/mock_bank.go github.com/KirkDiggler/teamtrivia/internal/questions Bank

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/teamtrivia/internal/dice"
	"github.com/KirkDiggler/teamtrivia/internal/models"
)

// Bank serves trivia questions. Calls may be slow.
type Bank interface {
	FetchRandomQuestion(ctx context.Context) (*models.BankQuestion, error)
}

//go:embed questions.json
var defaultQuestions []byte

// Entry is a question as stored, with its correct choice spelled out
type Entry struct {
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
	Answer  string   `json:"answer"`
}

// Config holds configuration for the static question bank
type Config struct {
	// Entries overrides the embedded question set
	Entries []Entry

	Roller dice.Roller
}

type staticBank struct {
	entries []Entry
	roller  dice.Roller
}

// letters label shuffled choices
const letters = "ABCDEFGHIJ"

// New creates a question bank over a fixed question set
func New(cfg *Config) (*staticBank, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Roller == nil {
		return nil, errors.New("roller cannot be nil")
	}

	entries := cfg.Entries
	if entries == nil {
		if err := json.Unmarshal(defaultQuestions, &entries); err != nil {
			return nil, fmt.Errorf("failed to load embedded questions: %w", err)
		}
	}

	if len(entries) == 0 {
		return nil, errors.New("question bank is empty")
	}

	for i, entry := range entries {
		if len(entry.Choices) < 2 || len(entry.Choices) > len(letters) {
			return nil, fmt.Errorf("question %d: need 2 to %d choices, got %d", i, len(letters), len(entry.Choices))
		}
		found := false
		for _, choice := range entry.Choices {
			if choice == entry.Answer {
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("question %d: answer %q is not one of its choices", i, entry.Answer)
		}
	}

	return &staticBank{
		entries: entries,
		roller:  cfg.Roller,
	}, nil
}

// FetchRandomQuestion picks a question and letters its shuffled choices
func (b *staticBank) FetchRandomQuestion(ctx context.Context) (*models.BankQuestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := b.entries[b.roller.Roll(len(b.entries))-1]

	choices := append([]string(nil), entry.Choices...)
	b.roller.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	question := &models.BankQuestion{
		Question: models.Question{
			Text:    entry.Text,
			Choices: make([]string, len(choices)),
		},
	}
	for i, choice := range choices {
		letter := string(letters[i])
		question.Choices[i] = fmt.Sprintf("%s. %s", letter, choice)
		if choice == entry.Answer {
			question.CorrectKey = letter
		}
	}

	return question, nil
}
