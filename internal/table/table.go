package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harlowe/cardroom/internal/deck"
	"github.com/harlowe/cardroom/internal/evaluator"
	"github.com/harlowe/cardroom/internal/wallet"
)

// Table is a multiplayer hand: a buy-in lobby with a join window, a
// shuffled betting order, four betting streets and a showdown among
// everyone still in. The pot is a single shared pot: a player who goes
// all-in for less can still contest the full pot. Side-pot partitioning
// is deliberately not implemented.
type Table struct {
	deps    Deps
	id      string
	channel string
	host    PlayerRef
	buyIn   int
	logger  *log.Logger

	players   []*Player
	deck      *deck.Deck
	community []deck.Card
	pot       int
	cancelled bool
}

// NewTable creates a multiplayer table with the given buy-in. Nothing is
// debited until Run opens the lobby.
func NewTable(channel string, host PlayerRef, buyIn int, deps Deps) (*Table, error) {
	if buyIn < 1 {
		return nil, fmt.Errorf("%w: buy-in must be positive", ErrInvalidAction)
	}
	id := uuid.NewString()
	return &Table{
		deps:    deps,
		id:      id,
		channel: channel,
		host:    host,
		buyIn:   buyIn,
		logger:  deps.Logger.WithPrefix("table").With("session", id, "channel", channel),
	}, nil
}

// ID returns the session identifier
func (t *Table) ID() string { return t.id }

// Pot returns the current pot size
func (t *Table) Pot() int { return t.pot }

// Run plays the table to completion: lobby, deal, four streets, showdown.
// A host cancel or an under-subscribed lobby refunds every buy-in.
func (t *Table) Run() error {
	if err := t.collectPlayers(); err != nil {
		return err
	}
	if t.cancelled {
		return nil
	}
	if len(t.players) < t.deps.Rules.MinPlayers {
		t.deps.Messenger.Send(Outbound{Text: "Not enough players to start the game. Refunding buy-ins."})
		return t.refundAll()
	}

	t.shuffleOrder()
	t.deal()

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
		if st.reveal > 0 {
			t.reveal(st.reveal)
		}
		round := NewBettingRound(t.deps.Messenger, t.deps.Wallet, t.logger, t.deps.Rules, st.street, t.buyIn, t.players, &t.pot)
		if err := round.Run(); err != nil {
			return err
		}
		if sole := t.soleRemaining(); sole != nil {
			return t.settleFoldWin(sole)
		}
	}

	return t.showdown()
}

// collectPlayers opens the lobby: the host buys in immediately, then join
// requests are accepted until the window closes, the table fills, the
// host force-starts, or the host cancels.
func (t *Table) collectPlayers() error {
	if err := t.seatPlayer(t.host); err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) || errors.Is(err, wallet.ErrUnknownPlayer) {
			t.deps.Messenger.Send(Outbound{Text: fmt.Sprintf("%s, you do not have enough coins to start the game.", t.host.Name)})
			t.cancelled = true
			return nil
		}
		return err
	}

	t.deps.Messenger.Send(Outbound{Text: fmt.Sprintf(
		"A new poker game is starting with a buy-in of %d! Type `!join` within %s to play. The host can `!cancel` or `!forcestart`.",
		t.buyIn, t.deps.Rules.JoinWindow)})

	deadline := t.deps.Clock.Now().Add(t.deps.Rules.JoinWindow)
	pred := func(in Inbound) bool {
		return FromPlayerCommand(in.PlayerID, "join", "cancel", "forcestart")(in)
	}

	for {
		remaining := deadline.Sub(t.deps.Clock.Now())
		if remaining <= 0 {
			return nil
		}

		in, err := t.deps.Messenger.AwaitResponse(pred, remaining)
		if errors.Is(err, ErrActionTimeout) {
			return nil
		}
		if err != nil {
			return err
		}

		switch firstWord(in.Text) {
		case "cancel":
			if in.PlayerID != t.host.ID {
				continue
			}
			t.deps.Messenger.Send(Outbound{Text: "The poker game has been cancelled by the host."})
			t.cancelled = true
			return t.refundAll()

		case "forcestart":
			if in.PlayerID != t.host.ID {
				continue
			}
			if len(t.players) >= t.deps.Rules.MinPlayers {
				t.deps.Messenger.Send(Outbound{Text: "Minimum player requirements met. Starting the game now!"})
				return nil
			}
			t.deps.Messenger.Send(Outbound{Text: fmt.Sprintf("Not enough players to start. Minimum required is %d.", t.deps.Rules.MinPlayers)})

		case "join":
			if t.member(in.PlayerID) != nil {
				t.deps.Messenger.Send(Outbound{Text: "You are already in the game!"})
				continue
			}
			joiner := PlayerRef{ID: in.PlayerID, Name: in.PlayerID}
			if err := t.seatPlayer(joiner); err != nil {
				if errors.Is(err, wallet.ErrInsufficientFunds) || errors.Is(err, wallet.ErrUnknownPlayer) {
					t.deps.Messenger.Send(Outbound{Text: "You do not have enough coins to join the game."})
					continue
				}
				return err
			}
			t.deps.Messenger.Send(Outbound{Text: fmt.Sprintf("%s has joined the table (%d players).", joiner.Name, len(t.players))})
			if len(t.players) == t.deps.Rules.MaxPlayers {
				t.deps.Messenger.Send(Outbound{Text: "Maximum number of players reached. Starting the game now!"})
				return nil
			}
		}
	}
}

// seatPlayer debits the buy-in and seats the player
func (t *Table) seatPlayer(ref PlayerRef) error {
	if err := t.deps.Wallet.Debit(ref.ID, t.buyIn); err != nil {
		return err
	}
	p := &Player{PlayerRef: ref, Seat: len(t.players), TotalBet: t.buyIn}
	t.players = append(t.players, p)
	t.pot += t.buyIn
	return nil
}

// refundAll returns every buy-in and contribution collected so far
func (t *Table) refundAll() error {
	for _, p := range t.players {
		if p.TotalBet > 0 {
			if err := t.deps.Wallet.Credit(p.ID, p.TotalBet); err != nil {
				return err
			}
			t.deps.Messenger.Send(Outbound{Text: fmt.Sprintf("%s, you have been refunded %d.", p.Name, p.TotalBet)})
		}
	}
	t.pot = 0
	return nil
}

// member returns the seated player with the given ID, or nil
func (t *Table) member(playerID string) *Player {
	for _, p := range t.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// shuffleOrder randomizes the betting order
func (t *Table) shuffleOrder() {
	t.deps.RNG.Shuffle(len(t.players), func(i, j int) {
		t.players[i], t.players[j] = t.players[j], t.players[i]
	})
	for i, p := range t.players {
		p.Seat = i
	}
}

// deal draws two private cards per player from one fresh deck
func (t *Table) deal() {
	t.deck = t.deps.newDeck()
	for _, p := range t.players {
		p.HoleCards = t.deck.DrawN(2)
		t.deps.Messenger.Send(Outbound{
			To:    p.ID,
			Title: "Your Hand",
			Cards: p.HoleCards,
		})
	}
}

// reveal burns one card then turns over n community cards
func (t *Table) reveal(n int) {
	t.deck.Burn()
	t.community = append(t.community, t.deck.DrawN(n)...)
	t.deps.Messenger.Send(Outbound{
		Title: "Community Cards",
		Cards: t.community,
	})
}

// soleRemaining returns the single non-folded player if all others have
// folded, nil otherwise.
func (t *Table) soleRemaining() *Player {
	var sole *Player
	for _, p := range t.players {
		if p.Folded {
			continue
		}
		if sole != nil {
			return nil
		}
		sole = p
	}
	return sole
}

// settleFoldWin pays the pot to the last player standing without any
// further reveals.
func (t *Table) settleFoldWin(winner *Player) error {
	if err := t.deps.Wallet.Credit(winner.ID, t.pot); err != nil {
		return err
	}
	t.deps.award(winner.ID, t.deps.Rules.WinPoints)
	t.deps.Messenger.Send(Outbound{Text: fmt.Sprintf("Everyone else folded. %s wins the pot of %d!", winner.Name, t.pot)})
	t.logger.Info("Fold win", "winner", winner.Name, "pot", t.pot)
	return nil
}

// showdown reveals the remaining hands, finds the best rank and settles.
// Ties split the pot evenly with the remainder going to the earliest
// winner in betting order.
func (t *Table) showdown() error {
	t.deps.Messenger.Send(Outbound{Text: "Showdown! Revealing hands..."})

	var (
		winners []*Player
		bestKey evaluator.RankKey
	)
	for _, p := range t.players {
		if p.Folded {
			continue
		}
		best, key := evaluator.BestHand(append(append([]deck.Card(nil), p.HoleCards...), t.community...))
		t.deps.Messenger.Send(Outbound{
			Title: fmt.Sprintf("%s: %s", p.Name, key.Category()),
			Cards: best,
		})

		switch {
		case winners == nil || key > bestKey:
			winners = []*Player{p}
			bestKey = key
		case key == bestKey:
			winners = append(winners, p)
		}
	}

	share := t.pot / len(winners)
	remainder := t.pot % len(winners)
	for i, w := range winners {
		payout := share
		if i == 0 {
			payout += remainder
		}
		if err := t.deps.Wallet.Credit(w.ID, payout); err != nil {
			return err
		}
		t.deps.award(w.ID, t.deps.Rules.WinPoints)
		t.deps.Messenger.Send(Outbound{Text: fmt.Sprintf("%s wins %d with %s!", w.Name, payout, bestKey.Category())})
	}
	for _, p := range t.players {
		if !p.Folded && !contains(winners, p) {
			t.deps.award(p.ID, t.deps.Rules.LossPoints)
		}
	}

	t.logger.Info("Showdown settled", "winners", len(winners), "pot", t.pot)
	return nil
}

func contains(players []*Player, target *Player) bool {
	for _, p := range players {
		if p == target {
			return true
		}
	}
	return false
}

// firstWord extracts the lowercased command word, stripping a "!" prefix
func firstWord(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[0], "!")
}
