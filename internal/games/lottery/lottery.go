// Package lottery implements the daily ticket lottery: players buy
// tickets at a fixed cost that feed a persistent pot, and a scheduled
// draw hands the whole pot to one ticket-weighted random winner.
package lottery

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/harlowe/cardroom/internal/table"
	"github.com/harlowe/cardroom/internal/wallet"
)

// Config holds the lottery tuning
type Config struct {
	TicketCost  int
	InitialPot  int
	DrawHourUTC int
}

// DefaultConfig returns the production lottery settings
func DefaultConfig() Config {
	return Config{
		TicketCost:  100,
		InitialPot:  30000,
		DrawHourUTC: 3,
	}
}

// Deps bundles the collaborators the lottery is constructed with
type Deps struct {
	Wallet wallet.Wallet
	Logger *log.Logger
	Clock  quartz.Clock
	Config Config
	RNG    *rand.Rand
}

// Lottery is the rolling ticket pool. Unlike the per-hand games it lives
// for the whole process and survives restarts through its state file.
type Lottery struct {
	deps   Deps
	logger *log.Logger

	// OnDraw, when set, announces a completed draw. The transport hangs
	// its winner broadcast off this.
	OnDraw func(winnerID string, payout int)

	mu    sync.Mutex
	path  string
	state state
}

type state struct {
	TotalTickets int            `json:"total_tickets"`
	Participants map[string]int `json:"participants"`
	Pot          int            `json:"current_pot"`
}

// New opens the lottery at path, loading the pool if the file exists. An
// empty path keeps the state purely in memory.
func New(path string, deps Deps) (*Lottery, error) {
	l := &Lottery{
		deps:   deps,
		logger: deps.Logger.WithPrefix("lottery"),
		path:   path,
	}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

// Pot returns the current pot
func (l *Lottery) Pot() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Pot
}

// Tickets returns how many tickets the player holds in the current pool
func (l *Lottery) Tickets(playerID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Participants[playerID]
}

// Status returns the pool totals: tickets sold, distinct participants
// and the pot.
func (l *Lottery) Status() (tickets, participants, pot int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.TotalTickets, len(l.state.Participants), l.state.Pot
}

// BuyTickets debits count tickets at the configured cost and adds them
// to the player's stake. It returns the player's new ticket total.
// Nothing changes when the balance cannot cover the purchase.
func (l *Lottery) BuyTickets(playerID string, count int) (int, error) {
	if count < 1 {
		return 0, fmt.Errorf("%w: ticket count must be positive", table.ErrInvalidAction)
	}
	cost := count * l.deps.Config.TicketCost

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.deps.Wallet.Debit(playerID, cost); err != nil {
		return 0, err
	}
	l.state.Participants[playerID] += count
	l.state.TotalTickets += count
	l.state.Pot += cost
	if err := l.save(); err != nil {
		return 0, err
	}

	total := l.state.Participants[playerID]
	l.logger.Info("Tickets purchased", "player", playerID, "tickets", count, "total", total, "pot", l.state.Pot)
	return total, nil
}

// Draw picks one winner weighted by ticket count, credits the whole pot
// to them and resets the pool to the initial pot. It reports ok=false
// without touching anything when no tickets were sold.
func (l *Lottery) Draw() (winnerID string, payout int, ok bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.TotalTickets < 1 {
		return "", 0, false, nil
	}

	// Map order is randomized; walk the players in sorted order so a
	// seeded RNG draws reproducibly.
	players := make([]string, 0, len(l.state.Participants))
	for id := range l.state.Participants {
		players = append(players, id)
	}
	sort.Strings(players)

	pick := l.deps.RNG.IntN(l.state.TotalTickets)
	for _, id := range players {
		pick -= l.state.Participants[id]
		if pick < 0 {
			winnerID = id
			break
		}
	}

	payout = l.state.Pot
	if err := l.deps.Wallet.Credit(winnerID, payout); err != nil {
		return "", 0, false, err
	}

	l.state = freshState(l.deps.Config.InitialPot)
	if err := l.save(); err != nil {
		return "", 0, false, err
	}

	l.logger.Info("Lottery drawn", "winner", winnerID, "payout", payout)
	return winnerID, payout, true, nil
}

// RunDraws fires a draw at the configured hour every day until the
// context is cancelled.
func (l *Lottery) RunDraws(ctx context.Context) error {
	for {
		now := l.deps.Clock.Now().UTC()
		timer := l.deps.Clock.NewTimer(nextDraw(now, l.deps.Config.DrawHourUTC).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			winner, payout, ok, err := l.Draw()
			if err != nil {
				l.logger.Error("Draw failed", "error", err)
				continue
			}
			if !ok {
				l.logger.Info("No tickets sold, skipping draw")
				continue
			}
			if l.OnDraw != nil {
				l.OnDraw(winner, payout)
			}
		}
	}
}

// nextDraw returns the next occurrence of the draw hour after now
func nextDraw(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func freshState(initialPot int) state {
	return state{
		Participants: make(map[string]int),
		Pot:          initialPot,
	}
}
