package models

import (
	"strings"
)

// Question is what the active team sees
type Question struct {
	Text string `json:"text"`

	// Choices are lettered, e.g. "A. Paris"
	Choices []string `json:"choices"`
}

// BankQuestion is a question as served by the question bank, key included
type BankQuestion struct {
	Question
	CorrectKey string `json:"correctKey"`
}

// NormalizeChoice maps free-form input to a comparable choice key
func NormalizeChoice(choice string) string {
	return strings.ToUpper(strings.TrimSpace(choice))
}

// ChoiceKey returns the letter a lettered choice is selected by
func ChoiceKey(choice string) string {
	key, _, found := strings.Cut(choice, ".")
	if !found {
		return NormalizeChoice(choice)
	}
	return NormalizeChoice(key)
}
