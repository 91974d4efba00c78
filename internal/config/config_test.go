package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cardroom.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4.0, cfg.Poker.PreflopCapMultiple)
	assert.Equal(t, 10, cfg.GiftHunt.TotalGifts)
	assert.Equal(t, 100, cfg.Duel.WinPoints)
}

func TestLoadOverridesAndMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
server {
  port = 9000
}

poker {
  preflop_cap_multiple = 5
  min_players          = 3
}

duel {
  win_coins = 500
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Address, "unset field keeps its default")
	assert.Equal(t, 5.0, cfg.Poker.PreflopCapMultiple)
	assert.Equal(t, 3, cfg.Poker.MinPlayers)
	assert.Equal(t, 3.0, cfg.Poker.FlopCapMultiple, "unset field keeps its default")
	assert.Equal(t, 500, cfg.Duel.WinCoins)
	assert.Equal(t, 100, cfg.Duel.WinPoints)
	assert.Equal(t, 10, cfg.GiftHunt.TotalGifts, "absent block gets full defaults")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, `server { port = `)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"port out of range", "server {\n  port = 70000\n}"},
		{"min players too low", "poker {\n  min_players = 1\n}"},
		{"max below min", "poker {\n  min_players = 6\n  max_players = 3\n}"},
		{"negative cap", "poker {\n  flop_cap_multiple = -1\n}"},
		{"too few gifts", "gifthunt {\n  total_gifts = 2\n}"},
		{"inverted multipliers", "gifthunt {\n  multiplier_min = 15\n  multiplier_max = 12\n}"},
		{"reset hour out of range", "economy {\n  reset_hour_utc = 24\n}"},
		{"negative ticket cost", "lottery {\n  ticket_cost = -5\n}"},
		{"draw hour out of range", "lottery {\n  draw_hour_utc = 24\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.contents))
			require.Error(t, err)
		})
	}
}

func TestPartialEconomyBlockKeepsResetHour(t *testing.T) {
	path := writeConfig(t, `
economy {
  message_points = 25
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	eco := cfg.EconomyConfig()
	assert.Equal(t, 25, eco.MessagePoints)
	assert.Equal(t, 5, eco.ResetHourUTC, "an untouched reset hour keeps the default")
}

func TestMidnightHoursAreLegalConfiguredValues(t *testing.T) {
	path := writeConfig(t, `
economy {
  reset_hour_utc = 0
}

lottery {
  draw_hour_utc = 0
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.EconomyConfig().ResetHourUTC)
	assert.Equal(t, 0, cfg.LotteryConfig().DrawHourUTC)
}

func TestLotteryOverridesAndMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
lottery {
  ticket_cost = 250
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	lt := cfg.LotteryConfig()
	assert.Equal(t, 250, lt.TicketCost)
	assert.Equal(t, 30000, lt.InitialPot, "unset field keeps its default")
	assert.Equal(t, 3, lt.DrawHourUTC)
	assert.Equal(t, "lobby", cfg.Lottery.AnnounceChannel)
	assert.Equal(t, "cardroom_lottery.json", cfg.Lottery.StatePath)
}

func TestConversions(t *testing.T) {
	cfg := Default()

	rules := cfg.PokerRules()
	assert.Equal(t, 4.0, rules.PreflopCapMultiple)
	assert.Equal(t, 2*time.Minute, rules.ActionTimeout)
	assert.Equal(t, 2*time.Minute, rules.JoinWindow)

	bj := cfg.BlackjackConfig()
	assert.Equal(t, 100, bj.WinPoints)
	assert.Equal(t, 45, bj.PushPoints)

	gh := cfg.GiftHuntConfig()
	assert.Equal(t, time.Minute, gh.PickTimeout)

	eco := cfg.EconomyConfig()
	assert.Equal(t, 10, eco.MessagePoints)
	assert.Equal(t, 5, eco.ResetHourUTC)

	lt := cfg.LotteryConfig()
	assert.Equal(t, 100, lt.TicketCost)
	assert.Equal(t, 30000, lt.InitialPot)
	assert.Equal(t, 3, lt.DrawHourUTC)
}
