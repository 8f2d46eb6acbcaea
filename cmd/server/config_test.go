package main

import (
	"testing"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)

	require.NoError(t, cfg.validate())
	assert.Equal(t, models.DefaultRules(), cfg.rules())
	assert.Equal(t, storeMemory, cfg.store)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("TRIVIA_MIN_PLAYERS", "3")
	t.Setenv("TRIVIA_ANSWER_TIMEOUT", "12s")
	t.Setenv("TRIVIA_LATE_JOIN", "true")

	cfg := &Config{}
	newCmd(cfg)

	rules := cfg.rules()
	assert.Equal(t, 3, rules.MinPlayers)
	assert.Equal(t, 12*time.Second, rules.AnswerTimeout)
	assert.True(t, rules.AllowLateJoin)
}

func TestValidateRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
	}{
		{"port", func(cfg *Config) { cfg.port = 0 }},
		{"store", func(cfg *Config) { cfg.store = "postgres" }},
		{"redis address", func(cfg *Config) { cfg.store = storeRedis; cfg.redisAddr = "" }},
		{"rate", func(cfg *Config) { cfg.rateBurst = 0 }},
		{"answer timeout", func(cfg *Config) { cfg.answerTimeout = 30 * time.Second }},
		{"pinned team", func(cfg *Config) { cfg.pinnedTeam = "group9" }},
		{"tone", func(cfg *Config) { cfg.tone = "sarcastic" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			newCmd(cfg)
			tt.modify(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestWireBuildsHandlers(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)

	h, err := wire(cfg, store.NewMemory(), logrus.New())
	require.NoError(t, err)
	assert.NotNil(t, h.ws)
	assert.NotNil(t, h.web)
	h.ws.Close()
}
