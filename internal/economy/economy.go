// Package economy accrues activity points on top of the wallet ledger:
// chat, voice and presence awards, game settlement awards, level
// progression and the daily points reset.
package economy

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/harlowe/cardroom/internal/wallet"
)

// Config holds the activity award tuning
type Config struct {
	MessagePoints int
	VoicePoints   int
	OnlinePoints  int

	// ResetHourUTC is the hour at which PointsToday zeroes out.
	ResetHourUTC int
}

// DefaultConfig returns the production award values
func DefaultConfig() Config {
	return Config{
		MessagePoints: 10,
		VoicePoints:   5,
		OnlinePoints:  2,
		ResetHourUTC:  5,
	}
}

// Tracker awards points and advances levels. It implements the engine's
// Scorekeeper collaborator.
type Tracker struct {
	ledger *wallet.Ledger
	cfg    Config
	clock  quartz.Clock
	logger *log.Logger

	// OnLevelUp, when set, is called after a player's level advances.
	OnLevelUp func(playerID string, level int)
}

// NewTracker creates a tracker over the given ledger
func NewTracker(ledger *wallet.Ledger, cfg Config, clock quartz.Clock, logger *log.Logger) *Tracker {
	return &Tracker{
		ledger: ledger,
		cfg:    cfg,
		clock:  clock,
		logger: logger.WithPrefix("economy"),
	}
}

// AwardPoints adds points and advances the player's level when the
// running total crosses a threshold.
func (t *Tracker) AwardPoints(playerID string, points int) {
	acct, err := t.ledger.AddPoints(playerID, points)
	if err != nil {
		t.logger.Error("Failed to award points", "player", playerID, "error", err)
		return
	}

	level := CurrentLevel(acct.Points)
	if level > acct.Level {
		if err := t.ledger.SetLevel(playerID, level); err != nil {
			t.logger.Error("Failed to set level", "player", playerID, "error", err)
			return
		}
		t.logger.Info("Level up", "player", playerID, "level", level)
		if t.OnLevelUp != nil {
			t.OnLevelUp(playerID, level)
		}
	}
}

// RecordMessage awards the per-message points
func (t *Tracker) RecordMessage(playerID string) {
	t.AwardPoints(playerID, t.cfg.MessagePoints)
}

// RecordVoiceMinute awards the per-minute voice points
func (t *Tracker) RecordVoiceMinute(playerID string) {
	t.AwardPoints(playerID, t.cfg.VoicePoints)
}

// RecordOnline awards the presence points for one tracking interval
func (t *Tracker) RecordOnline(playerID string) {
	t.AwardPoints(playerID, t.cfg.OnlinePoints)
}

// RunDailyReset zeroes every player's daily points at the configured
// hour until the context is cancelled.
func (t *Tracker) RunDailyReset(ctx context.Context) error {
	for {
		now := t.clock.Now().UTC()
		timer := t.clock.NewTimer(nextReset(now, t.cfg.ResetHourUTC).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			if err := t.ledger.ResetDailyPoints(); err != nil {
				t.logger.Error("Daily reset failed", "error", err)
			} else {
				t.logger.Info("Daily points reset")
			}
		}
	}
}

// nextReset returns the next occurrence of the reset hour after now
func nextReset(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// levelCost is the points needed to clear the given level
func levelCost(level int) int {
	if level == 1 {
		return 10000
	}
	return (level + 1) * 5000
}

// levelThreshold is the cumulative points at which the given level ends
func levelThreshold(level int) int {
	total := 0
	for l := 1; l <= level; l++ {
		total += levelCost(l)
	}
	return total
}

// CurrentLevel maps a lifetime points total to a level
func CurrentLevel(points int) int {
	level := 1
	for points >= levelThreshold(level) {
		level++
	}
	return level
}
