package deck

import rand "math/rand/v2"

// Deck is an ordered sequence of the 52 unique cards. A fresh deck is
// created for every hand and shuffled before any card is drawn; drawn
// cards are never returned.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a new 52-card deck shuffled with the provided RNG
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	d.shuffle()
	return d
}

// NewOrdered creates an unshuffled deck. Tests use it to arrange exact
// deals.
func NewOrdered() *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	return d
}

// Stacked creates a deck that deals the given cards in order. Tests use
// it to script hands.
func Stacked(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// shuffle performs a Fisher-Yates shuffle
func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DrawN draws n cards from the deck. It panics if the deck runs out,
// which cannot happen in any street of a legal hand.
func (d *Deck) DrawN(n int) []Card {
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		c, ok := d.Draw()
		if !ok {
			panic("deck: draw from empty deck")
		}
		cards = append(cards, c)
	}
	return cards
}

// Burn discards the top card face down
func (d *Deck) Burn() {
	d.Draw()
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
