package table

import (
	"errors"

	"github.com/harlowe/cardroom/internal/wallet"
)

// The engine's error taxonomy. Every error is scoped to the hand in
// progress; none is fatal to the hosting process.
var (
	// ErrInsufficientFunds: an ante, bet or raise exceeds the available
	// balance. Recovered locally by re-prompting, or by cancelling the
	// session with no debit applied.
	ErrInsufficientFunds = wallet.ErrInsufficientFunds

	// ErrInvalidAction: malformed input or an action that is not legal in
	// the current state. Recovered locally via re-prompt, never silently
	// ignored.
	ErrInvalidAction = errors.New("invalid action")

	// ErrActionTimeout: no response within the wait window. Terminal for
	// that player's further participation in the hand.
	ErrActionTimeout = errors.New("action timeout")

	// ErrSessionConflict: a second session was requested on a channel that
	// already has one. Rejected immediately, no state created.
	ErrSessionConflict = errors.New("session already running on this channel")
)
