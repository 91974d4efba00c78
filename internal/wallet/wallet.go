// Package wallet owns the coin balances the game engines bet against.
// Balances live outside any single game: the engines only ever move coins
// through the Wallet contract and check sufficiency before every debit.
package wallet

import "errors"

// ErrInsufficientFunds is returned when a debit would take a balance
// negative. No partial debit is applied.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrUnknownPlayer is returned when a debit targets a player with no
// account. Credits create accounts implicitly; debits never do.
var ErrUnknownPlayer = errors.New("unknown player")

// Wallet is the engine-facing currency contract. Implementations must
// serialize concurrent access for a single player identity.
type Wallet interface {
	// Balance returns the player's current coin balance.
	Balance(playerID string) int

	// Debit removes amount coins from the player's balance. It returns
	// ErrInsufficientFunds without mutating anything if the balance does
	// not cover the amount.
	Debit(playerID string, amount int) error

	// Credit adds amount coins to the player's balance.
	Credit(playerID string, amount int) error
}
