package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlowe/cardroom/internal/deck"
)

// stacked builds a scripted deck: two player hole cards, two house hole
// cards, then burn/reveal cards in street order.
func stacked(t *testing.T, codes ...string) *deck.Deck {
	t.Helper()
	cards, err := deck.ParseAll(codes...)
	require.NoError(t, err)
	return deck.Stacked(cards...)
}

func alice() PlayerRef {
	return PlayerRef{ID: "alice", Name: "alice"}
}

func TestDealerHandCapsAndShowdownLoss(t *testing.T) {
	msg := &scriptMessenger{}
	deps, w, scores := newTestDeps(t, msg, map[string]int{"alice": 10000})

	// Player pairs aces and kings; the house turns a set of queens.
	deps.Deck = stacked(t,
		"As", "Kh", // player
		"Qs", "Qh", // house
		"3c", "Ad", "Kc", "Qc", // burn + flop
		"4c", "2s", // burn + turn
		"5c", "7d", // burn + river
	)

	s, err := NewDealerSession("channel", alice(), 1000, deps)
	require.NoError(t, err)

	msg.push("alice", "bet 4000") // preflop cap is 4x ante
	msg.push("alice", "bet 4500") // over the flop cap, rejected
	msg.push("alice", "check")
	msg.push("alice", "check")
	msg.push("alice", "bet 1500") // river requires a wager

	require.NoError(t, s.Run())
	require.True(t, s.Ended())

	transcript := msg.transcript()
	assert.Contains(t, transcript, "limit on the flop is 3000")
	assert.Contains(t, transcript, "dealer wins")

	// Ante 1000 + preflop 4000 + river 1500 are forfeited.
	assert.Equal(t, 3500, w.Balance("alice"))
	assert.Equal(t, 6500, s.Pot())
	assert.Equal(t, DefaultRules().LossPoints, scores.awards["alice"])
}

func TestDealerHandWinPaysDoubleContribution(t *testing.T) {
	msg := &scriptMessenger{}
	deps, w, scores := newTestDeps(t, msg, map[string]int{"alice": 10000})

	deps.Deck = stacked(t,
		"As", "Ah", // player
		"2c", "3h", // house
		"3c", "Ad", "Kc", "Qc",
		"4c", "8s",
		"5c", "7d",
	)

	s, err := NewDealerSession("channel", alice(), 1000, deps)
	require.NoError(t, err)

	msg.push("alice", "check")
	msg.push("alice", "check")
	msg.push("alice", "check")
	msg.push("alice", "bet 1500")

	require.NoError(t, s.Run())

	// Contributed 2500 in total, paid back 5000.
	assert.Equal(t, 12500, w.Balance("alice"))
	assert.Contains(t, msg.transcript(), "wins with Three of a Kind")
	assert.Equal(t, DefaultRules().WinPoints, scores.awards["alice"])
}

func TestDealerHandTieReturnsContributionExactly(t *testing.T) {
	msg := &scriptMessenger{}
	deps, w, _ := newTestDeps(t, msg, map[string]int{"alice": 10000})

	// The board plays for both sides.
	deps.Deck = stacked(t,
		"2h", "3d",
		"2c", "3c",
		"4c", "As", "Ks", "Qs",
		"5c", "Js",
		"6c", "Ts",
	)

	s, err := NewDealerSession("channel", alice(), 1000, deps)
	require.NoError(t, err)

	msg.push("alice", "check")
	msg.push("alice", "check")
	msg.push("alice", "check")
	msg.push("alice", "bet 1500")

	require.NoError(t, s.Run())

	assert.Equal(t, 10000, w.Balance("alice"))
	assert.Contains(t, msg.transcript(), "tie")
}

func TestDealerHandFoldForfeitsStake(t *testing.T) {
	msg := &scriptMessenger{}
	deps, w, _ := newTestDeps(t, msg, map[string]int{"alice": 10000})

	s, err := NewDealerSession("channel", alice(), 1000, deps)
	require.NoError(t, err)

	msg.push("alice", "fold")
	require.NoError(t, s.Run())

	require.True(t, s.Ended())
	assert.Equal(t, 9000, w.Balance("alice"))
	assert.Contains(t, msg.transcript(), "house keeps the pot")
}

func TestDealerHandTimeoutForfeitsStake(t *testing.T) {
	msg := &scriptMessenger{}
	deps, w, _ := newTestDeps(t, msg, map[string]int{"alice": 10000})

	s, err := NewDealerSession("channel", alice(), 1000, deps)
	require.NoError(t, err)

	// No replies at all: the first turn times out.
	require.NoError(t, s.Run())

	require.True(t, s.Ended())
	assert.Equal(t, 9000, w.Balance("alice"))
	assert.Contains(t, msg.transcript(), "took too long")
}

func TestDealerHandInsufficientAnteCancelsWithoutDebit(t *testing.T) {
	msg := &scriptMessenger{}
	deps, w, _ := newTestDeps(t, msg, map[string]int{"alice": 500})

	s, err := NewDealerSession("channel", alice(), 1000, deps)
	require.NoError(t, err)

	require.NoError(t, s.Run())

	require.True(t, s.Ended())
	assert.Equal(t, 500, w.Balance("alice"))
	assert.Contains(t, msg.transcript(), "not have enough coins")
}

func TestDealerSessionRejectsNonPositiveAnte(t *testing.T) {
	msg := &scriptMessenger{}
	deps, _, _ := newTestDeps(t, msg, nil)

	_, err := NewDealerSession("channel", alice(), 0, deps)
	require.ErrorIs(t, err, ErrInvalidAction)
}
