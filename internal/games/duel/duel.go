// Package duel implements the word duel: both players sling words that
// start with a drawn challenge letter, each valid unused word dealing
// damage equal to its length, until one side's health runs out.
package duel

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harlowe/cardroom/internal/table"
	"github.com/harlowe/cardroom/internal/wallet"
)

// WordChecker validates dictionary words. The production checker calls a
// dictionary web service.
type WordChecker interface {
	IsValidWord(word string) (bool, error)
}

// WordCheckerFunc adapts a function to the WordChecker interface
type WordCheckerFunc func(word string) (bool, error)

func (f WordCheckerFunc) IsValidWord(word string) (bool, error) { return f(word) }

// Config holds the duel tuning
type Config struct {
	StartingHealth int
	WinPoints      int
	WinCoins       int
	TurnTimeout    time.Duration
}

// DefaultConfig returns the production duel settings
func DefaultConfig() Config {
	return Config{
		StartingHealth: 100,
		WinPoints:      100,
		WinCoins:       250,
		TurnTimeout:    2 * time.Minute,
	}
}

// Deps bundles the collaborators a duel is constructed with
type Deps struct {
	Messenger table.Messenger
	Wallet    wallet.Wallet
	Scores    table.Scorekeeper // optional
	Checker   WordChecker
	Logger    *log.Logger
	Config    Config
	RNG       *rand.Rand
}

// Duel is one word duel between two players
type Duel struct {
	deps   Deps
	id     string
	first  table.PlayerRef
	second table.PlayerRef
	logger *log.Logger

	letter    byte
	health    map[string]int
	usedWords map[string]bool
}

// New creates a duel between the two players and draws the challenge
// letter.
func New(first, second table.PlayerRef, deps Deps) (*Duel, error) {
	if first.ID == second.ID {
		return nil, fmt.Errorf("%w: cannot duel yourself", table.ErrInvalidAction)
	}
	id := uuid.NewString()
	d := &Duel{
		deps:   deps,
		id:     id,
		first:  first,
		second: second,
		logger: deps.Logger.WithPrefix("duel").With("session", id),
		health: map[string]int{
			first.ID:  deps.Config.StartingHealth,
			second.ID: deps.Config.StartingHealth,
		},
		usedWords: make(map[string]bool),
	}
	d.letter = byte('a' + deps.RNG.IntN(26))
	return d, nil
}

// ID returns the session identifier
func (d *Duel) ID() string { return d.id }

// Letter returns the challenge letter
func (d *Duel) Letter() byte { return d.letter }

// Health returns a player's remaining health
func (d *Duel) Health(playerID string) int { return d.health[playerID] }

// Run plays the duel to completion
func (d *Duel) Run() error {
	d.deps.Messenger.Send(table.Outbound{
		Title: "Word Duel",
		Text: fmt.Sprintf("%s vs %s! Words starting with '%c' deal their length in damage. First to 0 HP loses.",
			d.first.Name, d.second.Name, d.letter-'a'+'A'),
	})

	pred := func(in table.Inbound) bool {
		return in.PlayerID == d.first.ID || in.PlayerID == d.second.ID
	}

	for {
		in, err := d.deps.Messenger.AwaitResponse(pred, d.deps.Config.TurnTimeout)
		if errors.Is(err, table.ErrActionTimeout) {
			// Silence concedes: whoever has more health takes the duel,
			// the first player on an exact stand-off.
			winner := d.first
			if d.health[d.second.ID] > d.health[d.first.ID] {
				winner = d.second
			}
			d.deps.Messenger.Send(table.Outbound{Text: "The duel has gone quiet. Calling it on remaining health."})
			return d.settle(winner)
		}
		if err != nil {
			return err
		}

		damage, err := d.damage(in.Text)
		if err != nil {
			return err
		}

		attacker, defender := d.roles(in.PlayerID)
		if damage > 0 {
			d.health[defender.ID] = max(d.health[defender.ID]-damage, 0)
		}
		d.deps.Messenger.Send(table.Outbound{
			Title: "Duel Status",
			Text: fmt.Sprintf("%s deals %d damage! %s: %d HP, %s: %d HP.",
				attacker.Name, damage, d.first.Name, d.health[d.first.ID], d.second.Name, d.health[d.second.ID]),
		})

		if d.health[defender.ID] <= 0 {
			return d.settle(attacker)
		}
	}
}

// damage scores a message: every dictionary-valid word that starts with
// the challenge letter and has not been used yet adds its length. Used
// and invalid words are called out and score nothing.
func (d *Duel) damage(text string) (int, error) {
	total := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if word[0] != d.letter {
			continue
		}
		if d.usedWords[word] {
			d.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("The word '%s' has already been used.", word)})
			continue
		}
		ok, err := d.deps.Checker.IsValidWord(word)
		if err != nil {
			return 0, fmt.Errorf("checking word %q: %w", word, err)
		}
		if !ok {
			d.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf("The word '%s' is not a valid word.", word)})
			continue
		}
		d.usedWords[word] = true
		total += len(word)
	}
	return total, nil
}

func (d *Duel) roles(attackerID string) (attacker, defender table.PlayerRef) {
	if attackerID == d.first.ID {
		return d.first, d.second
	}
	return d.second, d.first
}

func (d *Duel) settle(winner table.PlayerRef) error {
	cfg := d.deps.Config
	if err := d.deps.Wallet.Credit(winner.ID, cfg.WinCoins); err != nil {
		return err
	}
	if d.deps.Scores != nil && cfg.WinPoints > 0 {
		d.deps.Scores.AwardPoints(winner.ID, cfg.WinPoints)
	}
	d.deps.Messenger.Send(table.Outbound{Text: fmt.Sprintf(
		"%s wins the duel and is awarded %d points and %d coins!", winner.Name, cfg.WinPoints, cfg.WinCoins)})
	d.logger.Info("Duel settled", "winner", winner.Name)
	return nil
}
