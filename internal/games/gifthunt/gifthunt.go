// Package gifthunt implements the gift hunt: the player antes up, a
// multiplied prize hides in one of ten gifts and the ante in another,
// then gifts are eliminated one by one until the last gift left decides
// the outcome.
package gifthunt

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harlowe/cardroom/internal/table"
	"github.com/harlowe/cardroom/internal/wallet"
)

// Config holds the gift hunt tuning
type Config struct {
	TotalGifts    int
	MultiplierMin float64
	MultiplierMax float64
	PickTimeout   time.Duration
}

// DefaultConfig returns the production gift hunt settings
func DefaultConfig() Config {
	return Config{
		TotalGifts:    10,
		MultiplierMin: 10.0,
		MultiplierMax: 15.0,
		PickTimeout:   time.Minute,
	}
}

// Deps bundles the collaborators a hunt is constructed with
type Deps struct {
	Messenger table.Messenger
	Wallet    wallet.Wallet
	Logger    *log.Logger
	Config    Config
	RNG       *rand.Rand
}

// Hunt is one gift hunt for one player
type Hunt struct {
	deps   Deps
	id     string
	player table.PlayerRef
	ante   int
	logger *log.Logger

	winningGift   int
	breakEvenGift int
	winningAmount int
	remaining     []int
}

// New creates a gift hunt for the given ante. Nothing is debited until
// Run starts.
func New(player table.PlayerRef, ante int, deps Deps) (*Hunt, error) {
	if ante < 1 {
		return nil, fmt.Errorf("%w: ante must be positive", table.ErrInvalidAction)
	}
	id := uuid.NewString()
	return &Hunt{
		deps:   deps,
		id:     id,
		player: player,
		ante:   ante,
		logger: deps.Logger.WithPrefix("gifthunt").With("session", id),
	}, nil
}

// ID returns the session identifier
func (h *Hunt) ID() string { return h.id }

// Run plays the hunt to completion. The stake rule matches the ante
// announcement: a timeout cancels the game without a refund.
func (h *Hunt) Run() error {
	err := h.deps.Wallet.Debit(h.player.ID, h.ante)
	if errors.Is(err, wallet.ErrInsufficientFunds) || errors.Is(err, wallet.ErrUnknownPlayer) {
		h.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("%s, you do not have enough coins to ante %d.", h.player.Name, h.ante)})
		return nil
	}
	if err != nil {
		return err
	}

	h.hidePrizes()

	h.deps.Messenger.Send(table.Outbound{
		Title: "Gift Hunt",
		Text: fmt.Sprintf(
			"%s, you have anted %d. %d coins hide in one of %d gifts, your ante in another, the rest are empty. Remove gifts one at a time; the last gift left is yours. A timeout forfeits your ante.",
			h.player.Name, h.ante, h.winningAmount, h.deps.Config.TotalGifts),
	})

	return h.pickGifts()
}

// hidePrizes rolls the prize multiplier and places the two special gifts
func (h *Hunt) hidePrizes() {
	cfg := h.deps.Config
	mult := cfg.MultiplierMin + h.deps.RNG.Float64()*(cfg.MultiplierMax-cfg.MultiplierMin)
	h.winningAmount = int(float64(h.ante) * mult)

	h.winningGift = h.deps.RNG.IntN(cfg.TotalGifts) + 1
	other := h.deps.RNG.IntN(cfg.TotalGifts - 1)
	h.breakEvenGift = other + 1
	if h.breakEvenGift >= h.winningGift {
		h.breakEvenGift++
	}

	h.remaining = make([]int, 0, cfg.TotalGifts)
	for i := 1; i <= cfg.TotalGifts; i++ {
		h.remaining = append(h.remaining, i)
	}
}

// pickGifts runs the elimination loop until one gift remains or both
// prize gifts have been removed.
func (h *Hunt) pickGifts() error {
	for len(h.remaining) > 1 {
		h.showGifts()

		in, err := h.deps.Messenger.AwaitResponse(h.numberFromPlayer(), h.deps.Config.PickTimeout)
		if errors.Is(err, table.ErrActionTimeout) {
			h.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("%s took too long to respond. The hunt is cancelled without refund.", h.player.Name)})
			return nil
		}
		if err != nil {
			return err
		}

		pick, _ := strconv.Atoi(strings.TrimSpace(in.Text))
		if !h.remove(pick) {
			h.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("%s, gift %d is not available. Choose one of the remaining gifts.", h.player.Name, pick)})
			continue
		}

		done, err := h.reveal(pick)
		if done || err != nil {
			return err
		}
	}

	return h.openFinalGift()
}

// reveal announces what was inside a removed gift and reports whether
// the hunt ended early with both prizes gone.
func (h *Hunt) reveal(pick int) (bool, error) {
	switch pick {
	case h.winningGift:
		h.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("The gift held %d coins. You have removed the winning gift!", h.winningAmount)})
		if !h.contains(h.breakEvenGift) {
			h.deps.Messenger.Send(table.Outbound{Text: "You have come away empty handed. Better luck next time!"})
			return true, nil
		}
		h.deps.Messenger.Send(table.Outbound{Text: "However, your ante is still in one of the gifts!"})

	case h.breakEvenGift:
		h.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("The gift held your ante of %d.", h.ante)})
		if !h.contains(h.winningGift) {
			h.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("Sorry %s, you lost. Better luck next time!", h.player.Name)})
			return true, nil
		}

	default:
		h.deps.Messenger.Send(table.Outbound{Text: "The gift was empty."})
	}
	return false, nil
}

// openFinalGift settles on the single remaining gift
func (h *Hunt) openFinalGift() error {
	final := h.remaining[0]
	h.deps.Messenger.Send(table.Outbound{Text: "Now opening the final gift..."})

	switch final {
	case h.winningGift:
		if err := h.deps.Wallet.Credit(h.player.ID, h.winningAmount); err != nil {
			return err
		}
		h.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("Congratulations %s! You've won %d coins!", h.player.Name, h.winningAmount)})

	case h.breakEvenGift:
		if err := h.deps.Wallet.Credit(h.player.ID, h.ante); err != nil {
			return err
		}
		h.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("You've won your ante of %d back.", h.ante)})

	default:
		h.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("Sorry %s, you lost. Better luck next time!", h.player.Name)})
	}

	h.logger.Info("Hunt settled", "player", h.player.Name, "final", final)
	return nil
}

func (h *Hunt) showGifts() {
	var b strings.Builder
	b.WriteString("Select a gift to remove: ")
	for _, g := range h.remaining {
		fmt.Fprintf(&b, "[%d] ", g)
	}
	h.deps.Messenger.Send(table.Outbound{Text: strings.TrimSpace(b.String())})
}

// numberFromPlayer matches a bare number from the hunting player
func (h *Hunt) numberFromPlayer() func(table.Inbound) bool {
	return func(in table.Inbound) bool {
		if in.PlayerID != h.player.ID {
			return false
		}
		_, err := strconv.Atoi(strings.TrimSpace(in.Text))
		return err == nil
	}
}

func (h *Hunt) contains(gift int) bool {
	for _, g := range h.remaining {
		if g == gift {
			return true
		}
	}
	return false
}

// remove takes gift out of the remaining set, reporting whether it was
// present.
func (h *Hunt) remove(gift int) bool {
	for i, g := range h.remaining {
		if g == gift {
			h.remaining = append(h.remaining[:i], h.remaining[i+1:]...)
			return true
		}
	}
	return false
}
