// Package evaluator ranks 5-card poker hands and selects the best 5-card
// hand from 6 or 7 available cards.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/harlowe/cardroom/internal/deck"
)

// Category is the class of a 5-card hand, ordered by increasing strength.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category description
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// RankKey is a totally ordered key for a 5-card hand. Comparing two keys
// numerically yields the correct winner: the category occupies the high
// bits and up to five tie-break rank values follow in priority order, one
// nibble each. Suits never contribute, so two hands that tie under poker
// rules produce the same key.
type RankKey uint32

const tiebreakSlots = 5

func makeKey(cat Category, tiebreaks ...int) RankKey {
	key := RankKey(cat) << (4 * tiebreakSlots)
	for i, tb := range tiebreaks {
		key |= RankKey(tb) << (4 * (tiebreakSlots - 1 - i))
	}
	return key
}

// Category returns the hand category encoded in the key
func (k RankKey) Category() Category {
	return Category(k >> (4 * tiebreakSlots))
}

// Tiebreaks returns the encoded tie-break rank values in priority order,
// zero-padded to five entries.
func (k RankKey) Tiebreaks() [tiebreakSlots]int {
	var tbs [tiebreakSlots]int
	for i := 0; i < tiebreakSlots; i++ {
		tbs[i] = int(k >> (4 * (tiebreakSlots - 1 - i)) & 0xF)
	}
	return tbs
}

// String describes the key for logs and hand summaries
func (k RankKey) String() string {
	return fmt.Sprintf("%s %v", k.Category(), k.Tiebreaks())
}

// Compare returns 1 if a beats b, -1 if b beats a, 0 on an exact tie
func Compare(a, b RankKey) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// Evaluate ranks exactly 5 cards. The input slice is not modified and its
// order does not affect the result.
func Evaluate(hand []deck.Card) RankKey {
	if len(hand) != 5 {
		panic(fmt.Sprintf("evaluator: need exactly 5 cards, got %d", len(hand)))
	}

	values := make([]int, 5)
	for i, c := range hand {
		values[i] = c.Rank.Value()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	flush := isFlush(hand)
	straight, straightHigh := isStraight(values)

	if flush && straight {
		if straightHigh == deck.Ace.Value() {
			return makeKey(RoyalFlush)
		}
		return makeKey(StraightFlush, straightHigh)
	}

	groups := groupByCount(values)

	switch {
	case groups[0].count == 4:
		return makeKey(FourOfAKind, groups[0].rank, groups[1].rank)

	case groups[0].count == 3 && groups[1].count == 2:
		return makeKey(FullHouse, groups[0].rank, groups[1].rank)

	case flush:
		return makeKey(Flush, values...)

	case straight:
		return makeKey(Straight, straightHigh)

	case groups[0].count == 3:
		return makeKey(ThreeOfAKind, groups[0].rank, groups[1].rank, groups[2].rank)

	case groups[0].count == 2 && groups[1].count == 2:
		return makeKey(TwoPair, groups[0].rank, groups[1].rank, groups[2].rank)

	case groups[0].count == 2:
		return makeKey(OnePair, groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank)

	default:
		return makeKey(HighCard, values...)
	}
}

func isFlush(hand []deck.Card) bool {
	for _, c := range hand[1:] {
		if c.Suit != hand[0].Suit {
			return false
		}
	}
	return true
}

// isStraight reports whether the sorted-descending values form a run of 5
// consecutive integers and returns the high card value. The wheel
// (A-5-4-3-2) counts with the ace demoted to 1, so it ranks below the
// 6-high straight.
func isStraight(sorted []int) (bool, int) {
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return false, 0
		}
	}

	if sorted[0]-sorted[4] == 4 {
		return true, sorted[0]
	}

	// Wheel: A,5,4,3,2
	if sorted[0] == deck.Ace.Value() && sorted[1] == 5 && sorted[4] == 2 {
		return true, 5
	}

	return false, 0
}

type rankGroup struct {
	rank  int
	count int
}

// groupByCount buckets the rank values and orders the buckets by
// (count desc, rank desc), which is exactly the priority order the
// tie-break lists need.
func groupByCount(values []int) []rankGroup {
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}

	groups := make([]rankGroup, 0, len(counts))
	for rank, count := range counts {
		groups = append(groups, rankGroup{rank: rank, count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}
