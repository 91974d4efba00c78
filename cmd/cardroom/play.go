package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/harlowe/cardroom/internal/randutil"
	"github.com/harlowe/cardroom/internal/table"
	"github.com/harlowe/cardroom/internal/wallet"
)

// PlayCmd deals a dealer hand in the terminal against an in-memory
// bankroll. Useful for trying the engine without a gateway.
type PlayCmd struct {
	Ante  int    `kong:"default='1000',help='Ante for the hand'"`
	Coins int    `kong:"default='10000',help='Starting bankroll'"`
	Name  string `kong:"default='',help='Display name (defaults to $USER or \"Player\")'"`
	Seed  *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Plain bool   `kong:"help='Disable colored card output'"`
}

func (c *PlayCmd) Run() error {
	name := c.Name
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "Player"
	}

	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	ledger, err := wallet.NewLedger("", logger)
	if err != nil {
		return err
	}
	if err := ledger.Credit(name, c.Coins); err != nil {
		return err
	}

	rng := randutil.NewTimeSeeded()
	if c.Seed != nil {
		rng = randutil.New(*c.Seed)
	}

	msg := newConsoleMessenger(name, os.Stdin, os.Stdout, c.Plain)
	deps := table.Deps{
		Messenger: msg,
		Wallet:    ledger,
		Logger:    logger,
		Rules:     table.DefaultRules(),
		Clock:     quartz.NewReal(),
		RNG:       rng,
	}

	sess, err := table.NewDealerSession("console", table.PlayerRef{ID: name, Name: name}, c.Ante, deps)
	if err != nil {
		return err
	}
	if err := sess.Run(); err != nil {
		return err
	}

	fmt.Printf("\nBankroll: %d coins\n", ledger.Balance(name))
	return nil
}
