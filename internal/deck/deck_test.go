package deck

import (
	"testing"

	"github.com/harlowe/cardroom/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := New(randutil.New(1))

	seen := make(map[Card]bool)
	for d.Remaining() > 0 {
		c, ok := d.Draw()
		require.True(t, ok)
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestDrawRemovesCards(t *testing.T) {
	d := New(randutil.New(2))

	cards := d.DrawN(5)
	assert.Len(t, cards, 5)
	assert.Equal(t, 47, d.Remaining())

	_, ok := NewOrdered().Draw()
	assert.True(t, ok)
}

func TestDrawFromEmptyDeck(t *testing.T) {
	d := Stacked(MustParse("As"))
	_, ok := d.Draw()
	require.True(t, ok)
	_, ok = d.Draw()
	assert.False(t, ok)
}

func TestShuffleIsSeedDeterministic(t *testing.T) {
	a := New(randutil.New(7))
	b := New(randutil.New(7))

	for a.Remaining() > 0 {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		require.Equal(t, ca, cb)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		code string
		rank Rank
		suit Suit
	}{
		{"As", Ace, Spades},
		{"Th", Ten, Hearts},
		{"2c", Two, Clubs},
		{"kd", King, Diamonds},
	}
	for _, tt := range tests {
		c, err := Parse(tt.code)
		require.NoError(t, err, tt.code)
		assert.Equal(t, tt.rank, c.Rank)
		assert.Equal(t, tt.suit, c.Suit)
	}

	for _, bad := range []string{"", "A", "Ax", "1s", "10s"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", MustParse("As").String())
	assert.Equal(t, "T♥", MustParse("Th").String())
	assert.Equal(t, "As", MustParse("As").Code())
	assert.True(t, MustParse("Th").IsRed())
	assert.False(t, MustParse("Tc").IsRed())
}
