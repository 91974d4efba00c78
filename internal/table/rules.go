package table

import "time"

// Rules is the immutable configuration a session is constructed with.
// The cap multiples are a configuration concern, not a law of the
// algorithm, but whatever they are they are enforced on every wager.
type Rules struct {
	// Per-street wager caps as multiples of the ante. Street commitments
	// reset when a new street opens; a player's total commitment on a
	// street may not exceed this multiple of the ante.
	PreflopCapMultiple float64
	FlopCapMultiple    float64
	TurnCapMultiple    float64
	RiverCapMultiple   float64

	// ActionTimeout is the wait window for a single decision. The rule
	// applied on expiry (auto-fold) is announced before the window opens.
	ActionTimeout time.Duration

	// JoinWindow is how long a multiplayer table stays open for buy-ins.
	JoinWindow time.Duration

	MinPlayers int
	MaxPlayers int

	// Point awards, credited through the Scorekeeper.
	WinPoints  int
	LossPoints int
}

// DefaultRules returns the production rule set
func DefaultRules() Rules {
	return Rules{
		PreflopCapMultiple: 4,
		FlopCapMultiple:    3,
		TurnCapMultiple:    2,
		RiverCapMultiple:   1.5,
		ActionTimeout:      2 * time.Minute,
		JoinWindow:         2 * time.Minute,
		MinPlayers:         2,
		MaxPlayers:         8,
		WinPoints:          120,
		LossPoints:         20,
	}
}

// StreetCap returns the maximum total street commitment for the given
// street and ante: the configured ante multiple for that street.
func (r Rules) StreetCap(street Street, ante int) int {
	var mult float64
	switch street {
	case Preflop:
		mult = r.PreflopCapMultiple
	case Flop:
		mult = r.FlopCapMultiple
	case Turn:
		mult = r.TurnCapMultiple
	case River:
		mult = r.RiverCapMultiple
	default:
		return 0
	}
	return int(mult * float64(ante))
}

// Scorekeeper receives point awards at settlement. A nil Scorekeeper is
// legal: sessions simply skip the award.
type Scorekeeper interface {
	AwardPoints(playerID string, points int)
}
