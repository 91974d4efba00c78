package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/harlowe/cardroom/internal/fileutil"
)

// Account holds everything tracked per player: the coin balance the games
// bet against plus the activity statistics the economy layer accrues.
type Account struct {
	Username    string `json:"username"`
	Coins       int    `json:"coins"`
	Points      int    `json:"points"`
	PointsToday int    `json:"points_today"`
	Level       int    `json:"level"`
}

// Ledger is a Wallet backed by a JSON file. All mutations happen under one
// mutex and are flushed with an atomic write, so a crash leaves either the
// old file or the new one, never a torn write.
type Ledger struct {
	mu       sync.Mutex
	path     string
	accounts map[string]*Account
	logger   *log.Logger
}

// NewLedger opens the ledger at path, loading existing accounts if the
// file exists. An empty path keeps the ledger purely in memory.
func NewLedger(path string, logger *log.Logger) (*Ledger, error) {
	l := &Ledger{
		path:     path,
		accounts: make(map[string]*Account),
		logger:   logger.WithPrefix("wallet"),
	}

	if path == "" {
		return l, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	if err := json.Unmarshal(data, &l.accounts); err != nil {
		return nil, fmt.Errorf("parsing ledger %s: %w", path, err)
	}

	l.logger.Info("Loaded ledger", "path", path, "accounts", len(l.accounts))
	return l, nil
}

// Balance returns the player's coin balance, zero for unknown players
func (l *Ledger) Balance(playerID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if acct, ok := l.accounts[playerID]; ok {
		return acct.Coins
	}
	return 0
}

// Debit removes coins from a player's balance after checking sufficiency
func (l *Ledger) Debit(playerID string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("negative debit %d for %s", amount, playerID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[playerID]
	if !ok {
		return fmt.Errorf("debit %d: %w: %s", amount, ErrUnknownPlayer, playerID)
	}
	if acct.Coins < amount {
		return fmt.Errorf("debit %d with balance %d: %w", amount, acct.Coins, ErrInsufficientFunds)
	}

	acct.Coins -= amount
	l.logger.Debug("Debited", "player", playerID, "amount", amount, "balance", acct.Coins)
	return l.save()
}

// Credit adds coins to a player's balance, creating the account if needed
func (l *Ledger) Credit(playerID string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("negative credit %d for %s", amount, playerID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct := l.ensureAccount(playerID)
	acct.Coins += amount
	l.logger.Debug("Credited", "player", playerID, "amount", amount, "balance", acct.Coins)
	return l.save()
}

// AddPoints accrues activity points to the player's lifetime and daily
// totals and returns the updated account.
func (l *Ledger) AddPoints(playerID string, points int) (Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct := l.ensureAccount(playerID)
	acct.Points += points
	acct.PointsToday += points
	return *acct, l.save()
}

// SetLevel records a player's level
func (l *Ledger) SetLevel(playerID string, level int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct := l.ensureAccount(playerID)
	acct.Level = level
	return l.save()
}

// SetUsername records the display name seen for a player
func (l *Ledger) SetUsername(playerID, username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct := l.ensureAccount(playerID)
	acct.Username = username
	return l.save()
}

// ResetDailyPoints zeroes every account's daily points counter
func (l *Ledger) ResetDailyPoints() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, acct := range l.accounts {
		acct.PointsToday = 0
	}
	l.logger.Info("Reset daily points", "accounts", len(l.accounts))
	return l.save()
}

// Account returns a copy of the player's account
func (l *Ledger) Account(playerID string) (Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if acct, ok := l.accounts[playerID]; ok {
		return *acct, true
	}
	return Account{}, false
}

func (l *Ledger) ensureAccount(playerID string) *Account {
	acct, ok := l.accounts[playerID]
	if !ok {
		acct = &Account{Level: 1}
		l.accounts[playerID] = acct
	}
	return acct
}

// save flushes the account map. Callers must hold the mutex.
func (l *Ledger) save() error {
	if l.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(l.accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	return fileutil.WriteFileAtomic(l.path, data, 0o644)
}
