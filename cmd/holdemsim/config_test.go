package main

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdem-arena/holdem"
	"holdem-arena/holdem/agent"
)

func TestApplyEnv_OverridesDefaults(t *testing.T) {
	env := map[string]string{
		"HOLDEM_HANDS":  "50",
		"HOLDEM_CHIPS":  "2500",
		"HOLDEM_SB":     "25",
		"HOLDEM_BB":     "50",
		"LEDGER_DRIVER": "none",
		"LOG_LEVEL":     "debug",
	}
	cfg := defaultConfig()
	require.NoError(t, cfg.applyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, 50, cfg.Hands)
	assert.Equal(t, 6, cfg.Players)
	assert.Equal(t, int64(2500), cfg.Chips)
	assert.Equal(t, int64(25), cfg.SmallBlind)
	assert.Equal(t, int64(50), cfg.BigBlind)
	assert.Equal(t, "none", cfg.LedgerDriver)
	assert.Equal(t, logrus.DebugLevel, cfg.logLevel())
}

func TestApplyEnv_RejectsBadNumbers(t *testing.T) {
	cfg := defaultConfig()
	err := cfg.applyEnv(func(k string) string {
		if k == "HOLDEM_SEED" {
			return "abc"
		}
		return ""
	})
	assert.Error(t, err)
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	t.Setenv("HOLDEM_HANDS", "7")
	t.Setenv("HOLDEM_PLAYERS", "3")

	cfg, err := loadConfig([]string{"-hands", "9", "-ledger", "none", "-quiet"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Hands)
	assert.Equal(t, 3, cfg.Players)
	assert.Equal(t, "none", cfg.LedgerDriver)
	assert.True(t, cfg.Quiet)
}

func TestLoadConfig_Validates(t *testing.T) {
	_, err := loadConfig([]string{"-players", "1"}, io.Discard)
	assert.Error(t, err)
	_, err = loadConfig([]string{"-log-level", "loud"}, io.Discard)
	assert.Error(t, err)
}

func TestSeatAgents_NumbersRepeatedPersonas(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	reg := agent.DefaultRegistry()
	n := reg.Count() + 2
	if n > holdem.MaxSeats {
		n = holdem.MaxSeats
	}
	game, err := holdem.NewGame(holdem.Config{
		MaxPlayers: n, MinPlayers: 2, SmallBlind: 5, BigBlind: 10, Seed: 3, Logger: logger,
	})
	require.NoError(t, err)
	roster := agent.NewRoster(reg, 3, logger)
	require.NoError(t, seatAgents(game, roster, n, 500))

	names := map[string]bool{}
	for _, inst := range roster.Instances() {
		assert.False(t, names[inst.Agent.Name()], "duplicate name %s", inst.Agent.Name())
		names[inst.Agent.Name()] = true
	}
	assert.Len(t, names, n)
	assert.Equal(t, int64(500*n), game.TotalChips())
}
