package gifthunt

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

func newFixture(t *testing.T, balance int) *fixture {
	t.Helper()

	var sent []table.Outbound
	mb := table.NewMailbox(quartz.NewReal(), func(out table.Outbound) { sent = append(sent, out) })

	w, err := wallet.NewLedger("", discardLogger())
	require.NoError(t, err)
	if balance > 0 {
		require.NoError(t, w.Credit("alice", balance))
	}

	cfg := DefaultConfig()
	cfg.PickTimeout = 50 * time.Millisecond

	return &fixture{
		mailbox: mb,
		wallet:  w,
		sent:    &sent,
		deps: Deps{
			Messenger: mb,
			Wallet:    w,
			Logger:    discardLogger(),
			Config:    cfg,
			RNG:       randutil.New(11),
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

func alice() table.PlayerRef { return table.PlayerRef{ID: "alice", Name: "alice"} }

// rigged builds a hunt with hand-placed prizes, skipping the debit so
// the elimination loop can be tested in isolation.
func rigged(t *testing.T, f *fixture, winning, breakEven, amount int, remaining ...int) *Hunt {
	t.Helper()
	h, err := New(alice(), 100, f.deps)
	require.NoError(t, err)
	h.winningGift = winning
	h.breakEvenGift = breakEven
	h.winningAmount = amount
	h.remaining = remaining
	return h
}

func deliver(f *fixture, texts ...string) {
	for _, text := range texts {
		f.mailbox.Deliver(table.Inbound{PlayerID: "alice", Text: text})
	}
}

func TestFinalGiftPaysThePrize(t *testing.T) {
	f := newFixture(t, 0)
	h := rigged(t, f, 3, 5, 1200, 2, 3)

	deliver(f, "2")
	require.NoError(t, h.pickGifts())

	assert.Equal(t, 1200, f.wallet.Balance("alice"))
	assert.Contains(t, f.transcript(), "You've won 1200 coins")
}

func TestFinalGiftReturnsTheAnte(t *testing.T) {
	f := newFixture(t, 0)
	h := rigged(t, f, 3, 5, 1200, 5, 7)

	deliver(f, "7")
	require.NoError(t, h.pickGifts())

	assert.Equal(t, 100, f.wallet.Balance("alice"))
	assert.Contains(t, f.transcript(), "ante of 100 back")
}

func TestFinalEmptyGiftLoses(t *testing.T) {
	f := newFixture(t, 0)
	h := rigged(t, f, 3, 5, 1200, 8, 9)

	deliver(f, "8")
	require.NoError(t, h.pickGifts())

	assert.Equal(t, 0, f.wallet.Balance("alice"))
	assert.Contains(t, f.transcript(), "you lost")
}

func TestRemovingWinningGiftWithAnteGoneEndsEmptyHanded(t *testing.T) {
	f := newFixture(t, 0)
	h := rigged(t, f, 3, 5, 1200, 3, 8)

	deliver(f, "3")
	require.NoError(t, h.pickGifts())

	assert.Equal(t, 0, f.wallet.Balance("alice"))
	assert.Contains(t, f.transcript(), "removed the winning gift")
	assert.Contains(t, f.transcript(), "empty handed")
}

func TestRemovingBothPrizesEndsEarly(t *testing.T) {
	f := newFixture(t, 0)
	h := rigged(t, f, 3, 5, 1200, 3, 5, 8)

	deliver(f, "3", "5")
	require.NoError(t, h.pickGifts())

	assert.Equal(t, 0, f.wallet.Balance("alice"))
	assert.Contains(t, f.transcript(), "ante is still in one of the gifts")
	assert.Contains(t, f.transcript(), "you lost")
}

func TestUnavailablePickReprompts(t *testing.T) {
	f := newFixture(t, 0)
	h := rigged(t, f, 2, 5, 1200, 1, 2)

	deliver(f, "9", "1")
	require.NoError(t, h.pickGifts())

	assert.Contains(t, f.transcript(), "gift 9 is not available")
	assert.Equal(t, 1200, f.wallet.Balance("alice"))
}

func TestTimeoutForfeitsTheAnte(t *testing.T) {
	f := newFixture(t, 1000)

	h, err := New(alice(), 100, f.deps)
	require.NoError(t, err)

	// No picks at all: the first wait expires.
	require.NoError(t, h.Run())

	assert.Equal(t, 900, f.wallet.Balance("alice"))
	assert.Contains(t, f.transcript(), "cancelled without refund")
}

func TestInsufficientFundsCancelsWithoutDebit(t *testing.T) {
	f := newFixture(t, 50)

	h, err := New(alice(), 100, f.deps)
	require.NoError(t, err)

	require.NoError(t, h.Run())

	assert.Equal(t, 50, f.wallet.Balance("alice"))
	assert.Contains(t, f.transcript(), "not have enough coins")
}

func TestRejectsNonPositiveAnte(t *testing.T) {
	f := newFixture(t, 1000)

	_, err := New(alice(), 0, f.deps)
	require.ErrorIs(t, err, table.ErrInvalidAction)
}

func TestHiddenPrizesNeverCollide(t *testing.T) {
	f := newFixture(t, 0)

	for seed := int64(0); seed < 50; seed++ {
		f.deps.RNG = randutil.New(seed)
		h, err := New(alice(), 100, f.deps)
		require.NoError(t, err)
		h.hidePrizes()

		assert.NotEqual(t, h.winningGift, h.breakEvenGift, "seed %d", seed)
		assert.GreaterOrEqual(t, h.winningGift, 1)
		assert.LessOrEqual(t, h.winningGift, DefaultConfig().TotalGifts)
		assert.GreaterOrEqual(t, h.breakEvenGift, 1)
		assert.LessOrEqual(t, h.breakEvenGift, DefaultConfig().TotalGifts)
		assert.GreaterOrEqual(t, h.winningAmount, 100*10)
		assert.LessOrEqual(t, h.winningAmount, 100*15)
	}
}
