package duel

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlowe/cardroom/internal/randutil"
	"github.com/harlowe/cardroom/internal/table"
	"github.com/harlowe/cardroom/internal/wallet"
)

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

type fixture struct {
	mailbox *table.Mailbox
	wallet  *wallet.Ledger
	sent    *[]table.Outbound
	deps    Deps
}

func newFixture(t *testing.T, checker WordChecker) *fixture {
	t.Helper()

	var sent []table.Outbound
	mb := table.NewMailbox(quartz.NewReal(), func(out table.Outbound) { sent = append(sent, out) })

	w, err := wallet.NewLedger("", discardLogger())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.TurnTimeout = 50 * time.Millisecond

	return &fixture{
		mailbox: mb,
		wallet:  w,
		sent:    &sent,
		deps: Deps{
			Messenger: mb,
			Wallet:    w,
			Checker:   checker,
			Logger:    discardLogger(),
			Config:    cfg,
			RNG:       randutil.New(42),
		},
	}
}

func (f *fixture) transcript() string {
	var b strings.Builder
	for _, out := range *f.sent {
		b.WriteString(out.Title)
		b.WriteString(" ")
		b.WriteString(out.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func acceptAll() WordChecker {
	return WordCheckerFunc(func(string) (bool, error) { return true, nil })
}

func players() (table.PlayerRef, table.PlayerRef) {
	return table.PlayerRef{ID: "alice", Name: "alice"}, table.PlayerRef{ID: "bob", Name: "bob"}
}

// wordOfLength builds a valid-looking word starting with the challenge
// letter.
func wordOfLength(letter byte, n int) string {
	return string(letter) + strings.Repeat("a", n-1)
}

func TestKnockoutWinsTheDuel(t *testing.T) {
	f := newFixture(t, acceptAll())
	a, b := players()

	d, err := New(a, b, f.deps)
	require.NoError(t, err)

	f.mailbox.Deliver(table.Inbound{PlayerID: "alice", Text: wordOfLength(d.Letter(), 100)})
	require.NoError(t, d.Run())

	assert.Equal(t, 0, d.Health("bob"))
	assert.Equal(t, DefaultConfig().WinCoins, f.wallet.Balance("alice"))
	assert.Contains(t, f.transcript(), "alice wins the duel")
}

func TestUsedWordScoresOnlyOnce(t *testing.T) {
	f := newFixture(t, acceptAll())
	a, b := players()

	d, err := New(a, b, f.deps)
	require.NoError(t, err)

	word := wordOfLength(d.Letter(), 10)
	f.mailbox.Deliver(table.Inbound{PlayerID: "alice", Text: word})
	f.mailbox.Deliver(table.Inbound{PlayerID: "bob", Text: word})

	// The script runs dry, so the duel is called on remaining health.
	require.NoError(t, d.Run())

	assert.Equal(t, 90, d.Health("bob"))
	assert.Equal(t, 100, d.Health("alice"), "a reused word deals no damage")
	assert.Contains(t, f.transcript(), "already been used")
	assert.Contains(t, f.transcript(), "alice wins the duel")
}

func TestInvalidWordDealsNoDamage(t *testing.T) {
	rejectAll := WordCheckerFunc(func(string) (bool, error) { return false, nil })
	f := newFixture(t, rejectAll)
	a, b := players()

	d, err := New(a, b, f.deps)
	require.NoError(t, err)

	f.mailbox.Deliver(table.Inbound{PlayerID: "alice", Text: wordOfLength(d.Letter(), 20)})
	require.NoError(t, d.Run())

	assert.Equal(t, 100, d.Health("bob"))
	assert.Contains(t, f.transcript(), "not a valid word")
}

func TestWordsWithWrongLetterAreIgnored(t *testing.T) {
	var checked []string
	checker := WordCheckerFunc(func(word string) (bool, error) {
		checked = append(checked, word)
		return true, nil
	})
	f := newFixture(t, checker)
	a, b := players()

	d, err := New(a, b, f.deps)
	require.NoError(t, err)

	// A word with the wrong first letter never reaches the dictionary.
	wrong := string('a'+(d.Letter()-'a'+1)%26) + "bcdef"
	f.mailbox.Deliver(table.Inbound{PlayerID: "alice", Text: wrong})
	require.NoError(t, d.Run())

	assert.Empty(t, checked)
	assert.Equal(t, 100, d.Health("bob"))
}

func TestCannotDuelYourself(t *testing.T) {
	f := newFixture(t, acceptAll())
	a, _ := players()

	_, err := New(a, a, f.deps)
	require.ErrorIs(t, err, table.ErrInvalidAction)
}
