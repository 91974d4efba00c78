package table

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harlowe/cardroom/internal/wallet"
)

// BettingRound drives one street of wagering for one or more players in a
// fixed order. It enforces the street's bet cap on every wager, converts
// under-funded calls to all-ins, re-prompts on invalid input without
// advancing the turn, and folds a player whose wait window expires.
type BettingRound struct {
	messenger Messenger
	wallet    wallet.Wallet
	logger    *log.Logger
	rules     Rules
	street    Street
	ante      int
	players   []*Player
	pot       *int

	// CurrentBet is the street commitment every active player must match.
	CurrentBet int

	// RequireWager disallows checking, used on the dealer variant's final
	// street where the player must bet or fold.
	RequireWager bool
}

// NewBettingRound creates a betting round for one street. Players keep
// their hand-level state (TotalBet, Folded, AllIn) across rounds; the
// street-level commitment is reset here.
func NewBettingRound(messenger Messenger, w wallet.Wallet, logger *log.Logger, rules Rules, street Street, ante int, players []*Player, pot *int) *BettingRound {
	for _, p := range players {
		p.StreetBet = 0
	}
	return &BettingRound{
		messenger: messenger,
		wallet:    w,
		logger:    logger.WithPrefix("betting").With("street", street.String()),
		rules:     rules,
		street:    street,
		ante:      ante,
		players:   players,
		pot:       pot,
	}
}

// Cap returns the maximum street commitment for this round
func (br *BettingRound) Cap() int {
	return br.rules.StreetCap(br.street, br.ante)
}

// Run collects decisions until every active player has matched the
// current bet, or until at most one non-folded player remains. The wallet
// is debited incrementally as each wager lands.
func (br *BettingRound) Run() error {
	acted := make(map[*Player]bool)

	for {
		// A fold-out only ends the street in multiway play; the dealer
		// variant runs the round for its single seat.
		if len(br.players) > 1 && br.remaining() <= 1 {
			return nil
		}

		p := br.nextToAct(acted)
		if p == nil {
			return nil
		}

		if err := br.turn(p); err != nil {
			return err
		}
		acted[p] = true
	}
}

// remaining counts non-folded players
func (br *BettingRound) remaining() int {
	n := 0
	for _, p := range br.players {
		if !p.Folded {
			n++
		}
	}
	return n
}

// nextToAct returns the first active player who has not yet acted this
// street or whose commitment no longer matches the current bet (a raise
// reopens the action for everyone else).
func (br *BettingRound) nextToAct(acted map[*Player]bool) *Player {
	for _, p := range br.players {
		if !p.Active() {
			continue
		}
		if !acted[p] || p.StreetBet != br.CurrentBet {
			return p
		}
	}
	return nil
}

// turn collects a single valid decision from p, re-prompting on invalid
// or unaffordable input. Only a timeout or a valid action ends the turn.
func (br *BettingRound) turn(p *Player) error {
	br.prompt(p)

	for {
		in, err := br.messenger.AwaitResponse(FromPlayer(p.ID), br.rules.ActionTimeout)
		if errors.Is(err, ErrActionTimeout) {
			br.timeout(p)
			return nil
		}
		if err != nil {
			return err
		}

		parsed, err := ParseAction(in.Text)
		if err != nil {
			br.messenger.Send(Outbound{Text: fmt.Sprintf("%s, that is not a valid action. Try again.", p.Name)})
			continue
		}

		done, err := br.apply(p, parsed)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// apply executes a parsed action. It returns false (with a re-prompt
// already sent) when the action is not legal in the current state; no
// balance or pot state changes in that case.
func (br *BettingRound) apply(p *Player, parsed ParsedAction) (bool, error) {
	switch parsed.Action {
	case Check:
		if br.RequireWager {
			br.messenger.Send(Outbound{Text: fmt.Sprintf("%s, you must bet or fold on this street.", p.Name)})
			return false, nil
		}
		if br.CurrentBet != p.StreetBet {
			br.messenger.Send(Outbound{Text: fmt.Sprintf("%s, you cannot check: %d to call.", p.Name, br.CurrentBet-p.StreetBet)})
			return false, nil
		}
		br.messenger.Send(Outbound{Text: fmt.Sprintf("%s checks.", p.Name)})
		return true, nil

	case Call:
		toCall := br.CurrentBet - p.StreetBet
		if toCall <= 0 {
			br.messenger.Send(Outbound{Text: fmt.Sprintf("%s, there is no bet to call.", p.Name)})
			return false, nil
		}
		balance := br.wallet.Balance(p.ID)
		if balance <= toCall {
			// Insufficient balance converts the call into an all-in for
			// whatever remains rather than failing.
			return true, br.commitAllIn(p, balance)
		}
		if err := br.commit(p, toCall); err != nil {
			return false, err
		}
		br.messenger.Send(Outbound{Text: fmt.Sprintf("%s calls %d. Pot is now %d.", p.Name, toCall, *br.pot)})
		return true, nil

	case Bet, Raise:
		target := parsed.Amount
		if !parsed.HasAmt {
			target = br.Cap()
		}
		return br.applyWager(p, target)

	case Fold:
		p.Folded = true
		br.messenger.Send(Outbound{Text: fmt.Sprintf("%s folds.", p.Name)})
		return true, nil

	case AllIn:
		return true, br.commitAllIn(p, br.wallet.Balance(p.ID))

	default:
		return false, nil
	}
}

// applyWager moves p's street commitment to target, enforcing the cap and
// the running bet. A rejected wager leaves pot, current bet and balance
// unchanged and keeps the turn with the same player.
func (br *BettingRound) applyWager(p *Player, target int) (bool, error) {
	limit := br.Cap()

	if target > limit {
		br.messenger.Send(Outbound{Text: fmt.Sprintf("%s, the bet limit on the %s is %d.", p.Name, br.street, limit)})
		return false, nil
	}
	if target < br.CurrentBet {
		br.messenger.Send(Outbound{Text: fmt.Sprintf("%s, you must wager at least the current bet of %d.", p.Name, br.CurrentBet)})
		return false, nil
	}
	if target <= p.StreetBet {
		br.messenger.Send(Outbound{Text: fmt.Sprintf("%s, you have already committed %d this street.", p.Name, p.StreetBet)})
		return false, nil
	}

	delta := target - p.StreetBet
	if br.wallet.Balance(p.ID) < delta {
		br.messenger.Send(Outbound{Text: fmt.Sprintf("%s, you do not have enough coins for that wager.", p.Name)})
		return false, nil
	}

	if err := br.commit(p, delta); err != nil {
		return false, err
	}
	if p.StreetBet > br.CurrentBet {
		br.CurrentBet = p.StreetBet
	}
	br.messenger.Send(Outbound{Text: fmt.Sprintf("%s wagers %d. Street bet: %d. Pot is now %d.", p.Name, delta, p.StreetBet, *br.pot)})
	return true, nil
}

// commit debits delta from p's wallet and moves it into the pot
func (br *BettingRound) commit(p *Player, delta int) error {
	if err := br.wallet.Debit(p.ID, delta); err != nil {
		return err
	}
	p.StreetBet += delta
	p.TotalBet += delta
	*br.pot += delta
	br.logger.Debug("Committed", "player", p.Name, "delta", delta, "pot", *br.pot)
	return nil
}

// commitAllIn commits the player's entire remaining balance regardless of
// the cap and marks them unable to act further this hand.
func (br *BettingRound) commitAllIn(p *Player, balance int) error {
	if balance > 0 {
		if err := br.commit(p, balance); err != nil {
			return err
		}
	}
	p.AllIn = true
	if p.StreetBet > br.CurrentBet {
		br.CurrentBet = p.StreetBet
	}
	br.messenger.Send(Outbound{Text: fmt.Sprintf("%s goes all-in with %d. Pot is now %d.", p.Name, balance, *br.pot)})
	return nil
}

// timeout applies the announced expiry rule: the player is folded out of
// the hand.
func (br *BettingRound) timeout(p *Player) {
	p.Folded = true
	p.TimedOut = true
	br.messenger.Send(Outbound{Text: fmt.Sprintf("%s took too long to respond and folds.", p.Name)})
	br.logger.Info("Player timed out", "player", p.Name)
}

// prompt announces the turn, the legal actions and the timeout rule
func (br *BettingRound) prompt(p *Player) {
	balance := br.wallet.Balance(p.ID)
	toCall := br.CurrentBet - p.StreetBet

	var text string
	switch {
	case br.RequireWager:
		text = fmt.Sprintf("%s, bet up to %d or fold. Balance: %d. Pot: %d.", p.Name, br.Cap(), balance, *br.pot)
	case toCall > 0:
		text = fmt.Sprintf("%s, %d to call. You can call, raise up to %d, fold or go all-in. Balance: %d. Pot: %d.",
			p.Name, toCall, br.Cap(), balance, *br.pot)
	default:
		text = fmt.Sprintf("%s, you can check, bet up to %d, fold or go all-in. Balance: %d. Pot: %d.",
			p.Name, br.Cap(), balance, *br.pot)
	}
	br.messenger.Send(Outbound{Text: text + fmt.Sprintf(" No response within %s folds your hand.", br.rules.ActionTimeout)})
}
