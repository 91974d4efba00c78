package table

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/harlowe/cardroom/internal/randutil"
	"github.com/harlowe/cardroom/internal/wallet"
)

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// scriptMessenger plays back a queued reply script. AwaitResponse takes
// the first queued reply the predicate accepts, leaving the rest in
// place, so a script stays valid whatever order the seats act in. An
// exhausted or unmatched script times out, which closes lobbies and
// folds pending turns the same way a silent channel would.
type scriptMessenger struct {
	replies []Inbound
	sent    []Outbound
}

func (m *scriptMessenger) push(playerID, text string) {
	m.replies = append(m.replies, Inbound{PlayerID: playerID, Text: text})
}

func (m *scriptMessenger) Send(out Outbound) {
	m.sent = append(m.sent, out)
}

func (m *scriptMessenger) AwaitResponse(pred func(Inbound) bool, timeout time.Duration) (Inbound, error) {
	for i, in := range m.replies {
		if pred(in) {
			m.replies = append(m.replies[:i], m.replies[i+1:]...)
			return in, nil
		}
	}
	return Inbound{}, ErrActionTimeout
}

// transcript joins every outbound title and text for Contains assertions
func (m *scriptMessenger) transcript() string {
	var b strings.Builder
	for _, out := range m.sent {
		b.WriteString(out.Title)
		b.WriteString(" ")
		b.WriteString(out.Text)
		b.WriteString("\n")
	}
	return b.String()
}

type pointsRecorder struct {
	awards map[string]int
}

func newPointsRecorder() *pointsRecorder {
	return &pointsRecorder{awards: make(map[string]int)}
}

func (r *pointsRecorder) AwardPoints(playerID string, points int) {
	r.awards[playerID] += points
}

// newTestDeps builds a Deps with an in-memory ledger funded per the map
func newTestDeps(t *testing.T, msg Messenger, funds map[string]int) (Deps, *wallet.Ledger, *pointsRecorder) {
	t.Helper()

	w, err := wallet.NewLedger("", discardLogger())
	require.NoError(t, err)
	for id, coins := range funds {
		require.NoError(t, w.Credit(id, coins))
	}

	scores := newPointsRecorder()
	deps := Deps{
		Messenger: msg,
		Wallet:    w,
		Scores:    scores,
		Logger:    discardLogger(),
		Rules:     DefaultRules(),
		Clock:     quartz.NewMock(t),
		RNG:       randutil.New(7),
	}
	return deps, w, scores
}
