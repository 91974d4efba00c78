package main

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/harlowe/cardroom/internal/config"
	"github.com/harlowe/cardroom/internal/economy"
	"github.com/harlowe/cardroom/internal/games/duel"
	"github.com/harlowe/cardroom/internal/games/lottery"
	"github.com/harlowe/cardroom/internal/gateway"
	"github.com/harlowe/cardroom/internal/randutil"
	"github.com/harlowe/cardroom/internal/table"
	"github.com/harlowe/cardroom/internal/wallet"
)

// ServeCmd runs the WebSocket gateway with the full game engine behind it
type ServeCmd struct {
	Config string `kong:"default='cardroom.hcl',help='Path to the HCL config file'"`
	Addr   string `kong:"help='Listen address override (host:port)'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Server.LogLevel, c.Debug)

	addr := c.Addr
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	}

	ledger, err := wallet.NewLedger(cfg.Server.LedgerPath, logger)
	if err != nil {
		return err
	}

	newRNG := randutil.NewTimeSeeded
	if c.Seed != nil {
		seed := *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
		var next atomic.Int64
		newRNG = func() *rand.Rand { return randutil.New(seed + next.Add(1)) }
	}

	clock := quartz.NewReal()
	tracker := economy.NewTracker(ledger, cfg.EconomyConfig(), clock, logger)
	gw := gateway.New(clock, logger)
	manager := table.NewManager(logger)

	lot, err := lottery.New(cfg.Lottery.StatePath, lottery.Deps{
		Wallet: ledger,
		Logger: logger,
		Clock:  clock,
		Config: cfg.LotteryConfig(),
		RNG:    newRNG(),
	})
	if err != nil {
		return err
	}
	lot.OnDraw = func(winnerID string, payout int) {
		name := winnerID
		if acct, ok := ledger.Account(winnerID); ok && acct.Username != "" {
			name = acct.Username
		}
		gw.Messenger(cfg.Lottery.AnnounceChannel).Send(table.Outbound{
			Title: "Lottery Draw",
			Text:  fmt.Sprintf("%s has won the lottery pot of %d!", name, payout),
		})
	}

	disp := &dispatcher{
		gateway: gw,
		manager: manager,
		ledger:  ledger,
		tracker: tracker,
		lottery: lot,
		checker: duel.NewDictionaryChecker(),
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		newRNG:  newRNG,
	}
	gw.OnChat = disp.handleChat

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting cardroom",
		"addr", addr,
		"ledger", cfg.Server.LedgerPath,
		"min_players", cfg.Poker.MinPlayers,
		"max_players", cfg.Poker.MaxPlayers,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return gw.Serve(ctx, addr)
	})
	g.Go(func() error {
		err := tracker.RunDailyReset(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := lot.RunDraws(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}
