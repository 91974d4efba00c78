package main

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlowe/cardroom/internal/config"
	"github.com/harlowe/cardroom/internal/economy"
	"github.com/harlowe/cardroom/internal/games/duel"
	"github.com/harlowe/cardroom/internal/games/lottery"
	"github.com/harlowe/cardroom/internal/gateway"
	"github.com/harlowe/cardroom/internal/randutil"
	"github.com/harlowe/cardroom/internal/table"
	"github.com/harlowe/cardroom/internal/wallet"
)

func newTestDispatcher(t *testing.T) (*dispatcher, *wallet.Ledger) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	ledger, err := wallet.NewLedger("", logger)
	require.NoError(t, err)

	clock := quartz.NewReal()
	cfg := config.Default()

	lot, err := lottery.New("", lottery.Deps{
		Wallet: ledger,
		Logger: logger,
		Clock:  clock,
		Config: cfg.LotteryConfig(),
		RNG:    randutil.New(7),
	})
	require.NoError(t, err)

	d := &dispatcher{
		gateway: gateway.New(clock, logger),
		manager: table.NewManager(logger),
		ledger:  ledger,
		tracker: economy.NewTracker(ledger, cfg.EconomyConfig(), clock, logger),
		lottery: lot,
		checker: duel.WordCheckerFunc(func(string) (bool, error) { return true, nil }),
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		newRNG:  randutil.NewTimeSeeded,
	}
	return d, ledger
}

func chat(d *dispatcher, playerID, name, text string) {
	d.handleChat("room", table.PlayerRef{ID: playerID, Name: name}, table.Inbound{PlayerID: playerID, Text: text})
}

func TestChatPersistsDisplayName(t *testing.T) {
	d, ledger := newTestDispatcher(t)

	chat(d, "u1", "Alice", "hello")

	acct, ok := ledger.Account("u1")
	require.True(t, ok)
	assert.Equal(t, "Alice", acct.Username)

	chat(d, "u1", "Alicia", "renamed myself")

	acct, _ = ledger.Account("u1")
	assert.Equal(t, "Alicia", acct.Username, "a changed name overwrites the stored one")
}

func TestChatAwardsActivityPoints(t *testing.T) {
	d, ledger := newTestDispatcher(t)

	chat(d, "u1", "Alice", "gl all")
	chat(d, "u1", "Alice", "one more")

	acct, ok := ledger.Account("u1")
	require.True(t, ok)
	assert.Equal(t, 2*config.Default().EconomyConfig().MessagePoints, acct.Points)
}

func TestLotteryPurchaseThroughChat(t *testing.T) {
	d, ledger := newTestDispatcher(t)
	require.NoError(t, ledger.Credit("u1", 1000))

	chat(d, "u1", "Alice", "!lottery 5")

	assert.Equal(t, 500, ledger.Balance("u1"))
	assert.Equal(t, 5, d.lottery.Tickets("u1"))
	assert.Equal(t, 30500, d.lottery.Pot())
}

func TestLotteryPurchaseWithBadAmountChangesNothing(t *testing.T) {
	d, ledger := newTestDispatcher(t)
	require.NoError(t, ledger.Credit("u1", 1000))

	for _, text := range []string{"!lottery", "!lottery zero", "!lottery 0", "!lottery -3"} {
		chat(d, "u1", "Alice", text)
	}

	assert.Equal(t, 1000, ledger.Balance("u1"))
	assert.Zero(t, d.lottery.Tickets("u1"))
}

func TestAmountArg(t *testing.T) {
	n, err := amountArg([]string{"!lottery", "5"})
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	for _, fields := range [][]string{
		{"!lottery"},
		{"!lottery", "abc"},
		{"!lottery", "0"},
		{"!lottery", "-2"},
	} {
		_, err := amountArg(fields)
		require.Error(t, err)
	}
}
