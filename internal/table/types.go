// Package table implements the betting engine: single-street betting
// rounds, the dealer-vs-player hand session, the multiplayer table and
// the per-channel session registry. It talks to the outside world only
// through the Messenger, Wallet and Scorekeeper collaborators.
package table

import "github.com/harlowe/cardroom/internal/deck"

// Street represents the betting round within a hand
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Action represents a player action token
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "bet", "raise", "allin"}[a]
}

// PlayerRef identifies a participant: an opaque identity plus a display
// name. The engine never looks behind it.
type PlayerRef struct {
	ID   string
	Name string
}

// Player is the per-hand betting state for one seat
type Player struct {
	PlayerRef
	Seat      int
	HoleCards []deck.Card
	Folded    bool
	AllIn     bool
	TimedOut  bool
	StreetBet int // committed this street
	TotalBet  int // committed this hand
}

// Active reports whether the player can still act this street
func (p *Player) Active() bool {
	return !p.Folded && !p.AllIn
}
