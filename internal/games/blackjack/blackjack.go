// Package blackjack implements the single-player blackjack game: hit or
// stand against a dealer who draws to 17, with soft-ace totals and a
// double payout on a win.
package blackjack

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harlowe/cardroom/internal/deck"
	"github.com/harlowe/cardroom/internal/table"
	"github.com/harlowe/cardroom/internal/wallet"
)

// Config holds the blackjack point awards and timing
type Config struct {
	WinPoints     int
	LossPoints    int
	PushPoints    int
	ActionTimeout time.Duration
}

// DefaultConfig returns the production blackjack settings
func DefaultConfig() Config {
	return Config{
		WinPoints:     100,
		LossPoints:    20,
		PushPoints:    45,
		ActionTimeout: 2 * time.Minute,
	}
}

// Deps bundles the collaborators a game is constructed with
type Deps struct {
	Messenger table.Messenger
	Wallet    wallet.Wallet
	Scores    table.Scorekeeper // optional
	Logger    *log.Logger
	Config    Config
	RNG       *rand.Rand
	Deck      *deck.Deck // optional override, used by tests to stack deals
}

// Game is one blackjack hand for one player
type Game struct {
	deps   Deps
	id     string
	player table.PlayerRef
	bet    int
	logger *log.Logger

	deck       *deck.Deck
	playerHand []deck.Card
	dealerHand []deck.Card
}

// New creates a blackjack game for the given bet. Nothing is debited
// until Run starts.
func New(player table.PlayerRef, bet int, deps Deps) (*Game, error) {
	if bet < 1 {
		return nil, fmt.Errorf("%w: bet must be positive", table.ErrInvalidAction)
	}
	id := uuid.NewString()
	return &Game{
		deps:   deps,
		id:     id,
		player: player,
		bet:    bet,
		logger: deps.Logger.WithPrefix("blackjack").With("session", id),
	}, nil
}

// ID returns the session identifier
func (g *Game) ID() string { return g.id }

// HandValue totals a blackjack hand: face cards count 10, aces count 11
// then drop to 1 while the total busts.
func HandValue(cards []deck.Card) int {
	value, aces := 0, 0
	for _, c := range cards {
		switch {
		case c.Rank == deck.Ace:
			value += 11
			aces++
		case c.Rank >= deck.Jack:
			value += 10
		default:
			value += c.Rank.Value()
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// Run plays the hand to completion
func (g *Game) Run() error {
	err := g.deps.Wallet.Debit(g.player.ID, g.bet)
	if errors.Is(err, wallet.ErrInsufficientFunds) || errors.Is(err, wallet.ErrUnknownPlayer) {
		g.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("%s, you do not have enough coins to bet %d.", g.player.Name, g.bet)})
		return nil
	}
	if err != nil {
		return err
	}

	g.deal()

	for {
		if HandValue(g.playerHand) > 21 {
			return g.settle("bust")
		}

		g.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf(
			"%s, you have %d. Type `!hit` or `!stand`. No response within %s stands.",
			g.player.Name, HandValue(g.playerHand), g.deps.Config.ActionTimeout)})

		in, err := g.deps.Messenger.AwaitResponse(
			table.FromPlayerCommand(g.player.ID, "hit", "stand"), g.deps.Config.ActionTimeout)
		if errors.Is(err, table.ErrActionTimeout) {
			break
		}
		if err != nil {
			return err
		}

		if firstCommand(in.Text) == "hit" {
			card := g.deck.DrawN(1)[0]
			g.playerHand = append(g.playerHand, card)
			g.showHands(false)
			continue
		}
		break
	}

	g.dealerPlay()
	g.showHands(true)
	return g.settle(g.result())
}

func (g *Game) deal() {
	g.deck = g.deps.Deck
	if g.deck == nil {
		g.deck = deck.New(g.deps.RNG)
	}
	g.playerHand = g.deck.DrawN(2)
	g.dealerHand = g.deck.DrawN(2)
	g.showHands(false)
}

// dealerPlay draws for the house until its total reaches 17
func (g *Game) dealerPlay() {
	for HandValue(g.dealerHand) < 17 {
		g.dealerHand = append(g.dealerHand, g.deck.DrawN(1)[0])
	}
}

// result compares the final totals, the player having already not busted
func (g *Game) result() string {
	player, dealer := HandValue(g.playerHand), HandValue(g.dealerHand)
	switch {
	case dealer > 21 || player > dealer:
		return "win"
	case player == dealer:
		return "push"
	default:
		return "lose"
	}
}

// showHands displays both hands, hiding the dealer's hole card until the
// hand resolves.
func (g *Game) showHands(revealDealer bool) {
	g.deps.Messenger.Send(table.Outbound{
		Title: fmt.Sprintf("Your Hand (%d)", HandValue(g.playerHand)),
		Cards: g.playerHand,
	})

	if revealDealer {
		g.deps.Messenger.Send(table.Outbound{
			Title: fmt.Sprintf("Dealer's Hand (%d)", HandValue(g.dealerHand)),
			Cards: g.dealerHand,
		})
		return
	}
	g.deps.Messenger.Send(table.Outbound{
		Title: "Dealer shows",
		Cards: g.dealerHand[:1],
	})
}

func (g *Game) settle(result string) error {
	cfg := g.deps.Config
	var text string

	switch result {
	case "win":
		payout := 2 * g.bet
		if err := g.deps.Wallet.Credit(g.player.ID, payout); err != nil {
			return err
		}
		g.award(cfg.WinPoints)
		text = fmt.Sprintf("Congratulations %s, you win! Payout: %d.", g.player.Name, payout)

	case "push":
		if err := g.deps.Wallet.Credit(g.player.ID, g.bet); err != nil {
			return err
		}
		g.award(cfg.PushPoints)
		text = fmt.Sprintf("It's a push, %s. Your bet of %d has been returned.", g.player.Name, g.bet)

	case "bust":
		g.award(cfg.LossPoints)
		text = fmt.Sprintf("Sorry %s, you busted! You lost %d.", g.player.Name, g.bet)

	default:
		g.award(cfg.LossPoints)
		text = fmt.Sprintf("Sorry %s, you lose! You lost %d.", g.player.Name, g.bet)
	}

	g.deps.Messenger.Send(table.Outbound{Title: "Blackjack", Text: text})
	g.logger.Info("Hand settled", "player", g.player.Name, "result", result, "bet", g.bet)
	return nil
}

func (g *Game) award(points int) {
	if g.deps.Scores != nil && points > 0 {
		g.deps.Scores.AwardPoints(g.player.ID, points)
	}
}

// firstCommand extracts the lowercased command word, stripping a "!"
func firstCommand(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[0], "!")
}
