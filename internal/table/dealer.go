package table

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/harlowe/cardroom/internal/deck"
	"github.com/harlowe/cardroom/internal/evaluator"
	"github.com/harlowe/cardroom/internal/wallet"
)

// Deps bundles the external collaborators a session is constructed with
type Deps struct {
	Messenger Messenger
	Wallet    wallet.Wallet
	Scores    Scorekeeper // optional
	Logger    *log.Logger
	Rules     Rules
	Clock     quartz.Clock
	RNG       *rand.Rand
	Deck      *deck.Deck // optional override, used by tests to stack deals
}

func (d Deps) newDeck() *deck.Deck {
	if d.Deck != nil {
		return d.Deck
	}
	return deck.New(d.RNG)
}

func (d Deps) award(playerID string, points int) {
	if d.Scores != nil && points > 0 {
		d.Scores.AwardPoints(playerID, points)
	}
}

// DealerSession is a single dealer-vs-player hand: ante collection,
// dealing, four betting streets against street-scaled caps, community
// card reveals and a showdown against the house hand. The stake rule is
// announced at ante time: a fold or timeout forfeits everything
// contributed so far.
type DealerSession struct {
	deps    Deps
	id      string
	channel string
	player  PlayerRef
	ante    int
	logger  *log.Logger

	deck      *deck.Deck
	seat      *Player
	house     []deck.Card
	community []deck.Card
	pot       int

	ended     bool
	endReason string
}

// NewDealerSession creates a dealer-vs-player hand for the given ante.
// Nothing is debited until Run reaches ante collection.
func NewDealerSession(channel string, player PlayerRef, ante int, deps Deps) (*DealerSession, error) {
	if ante < 1 {
		return nil, fmt.Errorf("%w: ante must be positive", ErrInvalidAction)
	}
	id := uuid.NewString()
	return &DealerSession{
		deps:    deps,
		id:      id,
		channel: channel,
		player:  player,
		ante:    ante,
		logger:  deps.Logger.WithPrefix("dealer").With("session", id, "channel", channel),
	}, nil
}

// ID returns the session identifier
func (s *DealerSession) ID() string { return s.id }

// Pot returns the player's total contribution so far
func (s *DealerSession) Pot() int { return s.pot }

// Ended reports whether the session reached a terminal state
func (s *DealerSession) Ended() bool { return s.ended }

// end sets the terminal flag; every later step checks it before acting
func (s *DealerSession) end(reason string) {
	if !s.ended {
		s.ended = true
		s.endReason = reason
		s.logger.Info("Session ended", "reason", reason, "pot", s.pot)
	}
}

// Run plays the hand to completion. The only returned errors are
// infrastructure failures; game outcomes (fold, timeout, loss) end the
// session cleanly.
func (s *DealerSession) Run() error {
	if err := s.collectAnte(); err != nil {
		return err
	}
	if s.ended {
		return nil
	}

	s.deal()

	streets := []struct {
		street Street
		reveal int
	}{
		{Preflop, 0},
		{Flop, 3},
		{Turn, 1},
		{River, 1},
	}
	for _, st := range streets {
		if s.ended {
			return nil
		}
		if st.reveal > 0 {
			s.reveal(st.reveal)
		}
		if err := s.bettingStreet(st.street); err != nil {
			return err
		}
	}

	if s.ended {
		return nil
	}
	return s.showdown()
}

// collectAnte debits the fixed ante. Insufficient balance cancels the
// session with no debit applied.
func (s *DealerSession) collectAnte() error {
	err := s.deps.Wallet.Debit(s.player.ID, s.ante)
	if errors.Is(err, wallet.ErrInsufficientFunds) || errors.Is(err, wallet.ErrUnknownPlayer) {
		s.deps.Messenger.Send(Outbound{Text: fmt.Sprintf("%s, you do not have enough coins to ante %d.", s.player.Name, s.ante)})
		s.end("insufficient ante")
		return nil
	}
	if err != nil {
		return err
	}

	s.pot = s.ante
	s.deps.Messenger.Send(Outbound{Text: fmt.Sprintf(
		"%s, you have anted %d. A fold or timeout forfeits your stake; a win pays double your total contribution.",
		s.player.Name, s.ante)})
	return nil
}

// deal draws two hole cards for the player and two for the house from one
// freshly shuffled deck.
func (s *DealerSession) deal() {
	s.deck = s.deps.newDeck()
	s.seat = &Player{PlayerRef: s.player}

	s.seat.HoleCards = s.deck.DrawN(2)
	s.house = s.deck.DrawN(2)

	s.deps.Messenger.Send(Outbound{
		To:    s.player.ID,
		Title: "Your Hand",
		Cards: s.seat.HoleCards,
	})
}

// reveal burns one card then turns over n community cards
func (s *DealerSession) reveal(n int) {
	s.deck.Burn()
	s.community = append(s.community, s.deck.DrawN(n)...)

	s.deps.Messenger.Send(Outbound{
		Title: "Community Cards",
		Cards: s.community,
	})
}

// bettingStreet runs one street. The river requires a wager: bet or fold.
func (s *DealerSession) bettingStreet(street Street) error {
	round := NewBettingRound(s.deps.Messenger, s.deps.Wallet, s.logger, s.deps.Rules, street, s.ante, []*Player{s.seat}, &s.pot)
	round.RequireWager = street == River

	if err := round.Run(); err != nil {
		return err
	}
	if s.seat.Folded {
		if s.seat.TimedOut {
			s.end("timeout")
		} else {
			s.deps.Messenger.Send(Outbound{Text: fmt.Sprintf("%s folds. The house keeps the pot of %d.", s.player.Name, s.pot)})
			s.end("fold")
		}
	}
	return nil
}

// showdown selects the best five cards for each side, compares and
// settles: a win pays double the contribution, an exact tie returns the
// contribution, a loss pays nothing.
func (s *DealerSession) showdown() error {
	if s.ended {
		return nil
	}

	_, playerKey := evaluator.BestHand(append(append([]deck.Card(nil), s.seat.HoleCards...), s.community...))
	_, houseKey := evaluator.BestHand(append(append([]deck.Card(nil), s.house...), s.community...))

	s.deps.Messenger.Send(Outbound{Title: "Dealer's Hand", Cards: s.house})

	var result string
	switch evaluator.Compare(playerKey, houseKey) {
	case 1:
		payout := 2 * s.pot
		if err := s.deps.Wallet.Credit(s.player.ID, payout); err != nil {
			return err
		}
		s.deps.award(s.player.ID, s.deps.Rules.WinPoints)
		result = fmt.Sprintf("%s wins with %s! Payout: %d.", s.player.Name, playerKey.Category(), payout)

	case -1:
		s.deps.award(s.player.ID, s.deps.Rules.LossPoints)
		result = fmt.Sprintf("The dealer wins with %s. Better luck next time!", houseKey.Category())

	default:
		if err := s.deps.Wallet.Credit(s.player.ID, s.pot); err != nil {
			return err
		}
		result = fmt.Sprintf("It's a tie with %s. Your %d is returned.", playerKey.Category(), s.pot)
	}

	s.deps.Messenger.Send(Outbound{Title: "Showdown", Text: result})
	s.end("showdown")
	return nil
}
