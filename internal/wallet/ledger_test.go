package wallet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T, path string) *Ledger {
	t.Helper()
	l, err := NewLedger(path, log.New(os.Stderr))
	require.NoError(t, err)
	return l
}

func TestCreditAndBalance(t *testing.T) {
	l := newTestLedger(t, "")

	require.NoError(t, l.Credit("alice", 500))
	assert.Equal(t, 500, l.Balance("alice"))
	assert.Equal(t, 0, l.Balance("nobody"))
}

func TestDebitChecksSufficiency(t *testing.T) {
	l := newTestLedger(t, "")
	require.NoError(t, l.Credit("alice", 100))

	err := l.Debit("alice", 150)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.Equal(t, 100, l.Balance("alice"), "failed debit must not mutate balance")

	require.NoError(t, l.Debit("alice", 100))
	assert.Equal(t, 0, l.Balance("alice"))
}

func TestDebitUnknownPlayer(t *testing.T) {
	l := newTestLedger(t, "")
	err := l.Debit("ghost", 10)
	assert.True(t, errors.Is(err, ErrUnknownPlayer))
}

func TestNegativeAmountsRejected(t *testing.T) {
	l := newTestLedger(t, "")
	assert.Error(t, l.Credit("alice", -1))
	assert.Error(t, l.Debit("alice", -1))
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	l := newTestLedger(t, path)
	require.NoError(t, l.Credit("alice", 1200))
	_, err := l.AddPoints("alice", 120)
	require.NoError(t, err)
	require.NoError(t, l.SetUsername("alice", "Alice"))

	reloaded := newTestLedger(t, path)
	assert.Equal(t, 1200, reloaded.Balance("alice"))

	acct, ok := reloaded.Account("alice")
	require.True(t, ok)
	assert.Equal(t, "Alice", acct.Username)
	assert.Equal(t, 120, acct.Points)
	assert.Equal(t, 120, acct.PointsToday)
	assert.Equal(t, 1, acct.Level)
}

func TestResetDailyPoints(t *testing.T) {
	l := newTestLedger(t, "")
	_, err := l.AddPoints("alice", 50)
	require.NoError(t, err)
	_, err = l.AddPoints("bob", 75)
	require.NoError(t, err)

	require.NoError(t, l.ResetDailyPoints())

	alice, _ := l.Account("alice")
	bob, _ := l.Account("bob")
	assert.Zero(t, alice.PointsToday)
	assert.Zero(t, bob.PointsToday)
	assert.Equal(t, 50, alice.Points, "lifetime points survive the reset")
	assert.Equal(t, 75, bob.Points)
}
