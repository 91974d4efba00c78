package main

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/harlowe/cardroom/internal/config"
	"github.com/harlowe/cardroom/internal/economy"
	"github.com/harlowe/cardroom/internal/games/blackjack"
	"github.com/harlowe/cardroom/internal/games/duel"
	"github.com/harlowe/cardroom/internal/games/gifthunt"
	"github.com/harlowe/cardroom/internal/games/lottery"
	"github.com/harlowe/cardroom/internal/gateway"
	"github.com/harlowe/cardroom/internal/table"
	"github.com/harlowe/cardroom/internal/wallet"
)

// dispatcher turns channel chat commands into game sessions. Everything
// after the command keyword is handled by the session itself through the
// channel mailbox; the dispatcher only starts and routes.
type dispatcher struct {
	gateway *gateway.Gateway
	manager *table.Manager
	ledger  *wallet.Ledger
	tracker *economy.Tracker
	lottery *lottery.Lottery
	checker duel.WordChecker
	cfg     *config.Config
	clock   quartz.Clock
	logger  *log.Logger
	newRNG  func() *rand.Rand
}

// handleChat observes every chat line: activity points first, then the
// game commands.
func (d *dispatcher) handleChat(channel string, from table.PlayerRef, in table.Inbound) {
	d.tracker.RecordMessage(from.ID)
	d.rememberName(from)

	if !strings.HasPrefix(in.Text, "!") {
		return
	}
	fields := strings.Fields(in.Text)
	msg := d.gateway.Messenger(channel)

	switch strings.ToLower(fields[0]) {
	case "!balance":
		d.sendBalance(msg, from)

	case "!lottery":
		count, err := amountArg(fields)
		if err != nil {
			msg.Send(table.Outbound{Text: fmt.Sprintf(
				"Usage: !lottery <tickets>. Each ticket costs %d. Current pot: %d.",
				d.cfg.LotteryConfig().TicketCost, d.lottery.Pot())})
			return
		}
		d.buyLotteryTickets(msg, from, count)

	case "!lotterystatus":
		tickets, participants, pot := d.lottery.Status()
		msg.Send(table.Outbound{
			Title: "Lottery Status",
			Text: fmt.Sprintf("Tickets sold: %d. Participants: %d. Current pot: %d.",
				tickets, participants, pot),
		})

	case "!poker":
		ante, err := amountArg(fields)
		if err != nil {
			msg.Send(table.Outbound{Text: "Usage: !poker <ante>"})
			return
		}
		sess, err := table.NewDealerSession(channel, from, ante, d.tableDeps(channel))
		if err != nil {
			msg.Send(table.Outbound{Text: err.Error()})
			return
		}
		d.start(channel, sess, msg)

	case "!holdem":
		buyIn, err := amountArg(fields)
		if err != nil {
			msg.Send(table.Outbound{Text: "Usage: !holdem <buy-in>"})
			return
		}
		sess, err := table.NewTable(channel, from, buyIn, d.tableDeps(channel))
		if err != nil {
			msg.Send(table.Outbound{Text: err.Error()})
			return
		}
		d.start(channel, sess, msg)

	case "!blackjack":
		bet, err := amountArg(fields)
		if err != nil {
			msg.Send(table.Outbound{Text: "Usage: !blackjack <bet>"})
			return
		}
		sess, err := blackjack.New(from, bet, blackjack.Deps{
			Messenger: msg,
			Wallet:    d.ledger,
			Scores:    d.tracker,
			Logger:    d.logger,
			Config:    d.cfg.BlackjackConfig(),
			RNG:       d.newRNG(),
		})
		if err != nil {
			msg.Send(table.Outbound{Text: err.Error()})
			return
		}
		d.start(channel, sess, msg)

	case "!gifthunt":
		ante, err := amountArg(fields)
		if err != nil {
			msg.Send(table.Outbound{Text: "Usage: !gifthunt <ante>"})
			return
		}
		sess, err := gifthunt.New(from, ante, gifthunt.Deps{
			Messenger: msg,
			Wallet:    d.ledger,
			Logger:    d.logger,
			Config:    d.cfg.GiftHuntConfig(),
			RNG:       d.newRNG(),
		})
		if err != nil {
			msg.Send(table.Outbound{Text: err.Error()})
			return
		}
		d.start(channel, sess, msg)

	case "!duel":
		if len(fields) < 2 {
			msg.Send(table.Outbound{Text: "Usage: !duel <player>"})
			return
		}
		opponentID := strings.TrimPrefix(fields[1], "@")
		opponent := table.PlayerRef{ID: opponentID, Name: opponentID}
		if acct, ok := d.ledger.Account(opponentID); ok && acct.Username != "" {
			opponent.Name = acct.Username
		}
		sess, err := duel.New(from, opponent, duel.Deps{
			Messenger: msg,
			Wallet:    d.ledger,
			Scores:    d.tracker,
			Checker:   d.checker,
			Logger:    d.logger,
			Config:    d.cfg.DuelConfig(),
			RNG:       d.newRNG(),
		})
		if err != nil {
			msg.Send(table.Outbound{Text: err.Error()})
			return
		}
		d.start(channel, sess, msg)
	}
}

func (d *dispatcher) tableDeps(channel string) table.Deps {
	return table.Deps{
		Messenger: d.gateway.Messenger(channel),
		Wallet:    d.ledger,
		Scores:    d.tracker,
		Logger:    d.logger,
		Rules:     d.cfg.PokerRules(),
		Clock:     d.clock,
		RNG:       d.newRNG(),
	}
}

// start runs the session on its own goroutine. The manager enforces one
// session per channel.
func (d *dispatcher) start(channel string, sess table.Session, msg table.Messenger) {
	go func() {
		err := d.manager.Begin(channel, sess)
		switch {
		case errors.Is(err, table.ErrSessionConflict):
			msg.Send(table.Outbound{Text: "A game is already running in this channel."})
		case err != nil:
			d.logger.Error("Session failed", "channel", channel, "session", sess.ID(), "error", err)
		}
	}()
}

// rememberName keeps the ledger's display names current so later
// lookups (duel opponents, draw announcements) resolve to something
// better than a raw ID.
func (d *dispatcher) rememberName(from table.PlayerRef) {
	if from.Name == "" {
		return
	}
	if acct, ok := d.ledger.Account(from.ID); ok && acct.Username == from.Name {
		return
	}
	if err := d.ledger.SetUsername(from.ID, from.Name); err != nil {
		d.logger.Warn("Failed to record display name", "player", from.ID, "error", err)
	}
}

func (d *dispatcher) buyLotteryTickets(msg table.Messenger, from table.PlayerRef, count int) {
	total, err := d.lottery.BuyTickets(from.ID, count)
	switch {
	case errors.Is(err, wallet.ErrInsufficientFunds), errors.Is(err, wallet.ErrUnknownPlayer):
		msg.Send(table.Outbound{Text: fmt.Sprintf(
			"%s, you cannot afford %d tickets. Your balance is %d.",
			from.Name, count, d.ledger.Balance(from.ID))})
	case err != nil:
		msg.Send(table.Outbound{Text: err.Error()})
	default:
		msg.Send(table.Outbound{Text: fmt.Sprintf(
			"%s bought %d tickets and now holds %d. Current pot: %d.",
			from.Name, count, total, d.lottery.Pot())})
	}
}

func (d *dispatcher) sendBalance(msg table.Messenger, from table.PlayerRef) {
	acct, _ := d.ledger.Account(from.ID)
	msg.Send(table.Outbound{
		To:    from.ID,
		Title: "Balance",
		Text: fmt.Sprintf("%s has %d coins, %d points (level %d), %d earned today.",
			from.Name, acct.Coins, acct.Points, acct.Level, acct.PointsToday),
	})
}

func amountArg(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, errors.New("missing amount")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad amount %q", fields[1])
	}
	return n, nil
}
