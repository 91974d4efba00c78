package evaluator

import (
	"fmt"

	"github.com/harlowe/cardroom/internal/deck"
)

// BestHand finds the strongest 5-card hand drawable from 6 or 7 cards by
// exhaustive combination search (15 or 21 candidates). When several
// combinations tie for the maximum any one of them may be returned; the
// RankKey is what later comparisons use.
func BestHand(cards []deck.Card) ([]deck.Card, RankKey) {
	if len(cards) < 6 || len(cards) > 7 {
		panic(fmt.Sprintf("evaluator: best hand needs 6 or 7 cards, got %d", len(cards)))
	}

	var (
		best    []deck.Card
		bestKey RankKey
	)
	combinations(cards, 5, func(combo []deck.Card) {
		key := Evaluate(combo)
		if best == nil || key > bestKey {
			best = append([]deck.Card(nil), combo...)
			bestKey = key
		}
	})
	return best, bestKey
}

// combinations calls fn with every k-card combination of cards. The slice
// passed to fn is reused between calls.
func combinations(cards []deck.Card, k int, fn func([]deck.Card)) {
	combo := make([]deck.Card, k)
	var recurse func(start, depth int)
	recurse = func(start, depth int) {
		if depth == k {
			fn(combo)
			return
		}
		for i := start; i <= len(cards)-(k-depth); i++ {
			combo[depth] = cards[i]
			recurse(i+1, depth+1)
		}
	}
	recurse(0, 0)
}
