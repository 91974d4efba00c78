// Package config loads the cardroom configuration from an HCL file. A
// missing file yields the defaults; a present file only needs to name
// the settings it changes.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/harlowe/cardroom/internal/economy"
	"github.com/harlowe/cardroom/internal/games/blackjack"
	"github.com/harlowe/cardroom/internal/games/duel"
	"github.com/harlowe/cardroom/internal/games/gifthunt"
	"github.com/harlowe/cardroom/internal/games/lottery"
	"github.com/harlowe/cardroom/internal/table"
)

// Config is the complete cardroom configuration
type Config struct {
	Server    *ServerSettings    `hcl:"server,block"`
	Economy   *EconomySettings   `hcl:"economy,block"`
	Poker     *PokerSettings     `hcl:"poker,block"`
	Blackjack *BlackjackSettings `hcl:"blackjack,block"`
	Duel      *DuelSettings      `hcl:"duel,block"`
	GiftHunt  *GiftHuntSettings  `hcl:"gifthunt,block"`
	Lottery   *LotterySettings   `hcl:"lottery,block"`
}

// ServerSettings contains the gateway and storage settings
type ServerSettings struct {
	Address    string `hcl:"address,optional"`
	Port       int    `hcl:"port,optional"`
	LogLevel   string `hcl:"log_level,optional"`
	LedgerPath string `hcl:"ledger_path,optional"`
}

// EconomySettings contains the activity award settings. The reset hour
// is a pointer because midnight is a legal configured value; nil means
// the field was absent and takes the default.
type EconomySettings struct {
	MessagePoints int  `hcl:"message_points,optional"`
	VoicePoints   int  `hcl:"voice_points,optional"`
	OnlinePoints  int  `hcl:"online_points,optional"`
	ResetHourUTC  *int `hcl:"reset_hour_utc,optional"`
}

// PokerSettings contains the betting rules for both poker variants
type PokerSettings struct {
	PreflopCapMultiple   float64 `hcl:"preflop_cap_multiple,optional"`
	FlopCapMultiple      float64 `hcl:"flop_cap_multiple,optional"`
	TurnCapMultiple      float64 `hcl:"turn_cap_multiple,optional"`
	RiverCapMultiple     float64 `hcl:"river_cap_multiple,optional"`
	ActionTimeoutSeconds int     `hcl:"action_timeout_seconds,optional"`
	JoinWindowSeconds    int     `hcl:"join_window_seconds,optional"`
	MinPlayers           int     `hcl:"min_players,optional"`
	MaxPlayers           int     `hcl:"max_players,optional"`
	WinPoints            int     `hcl:"win_points,optional"`
	LossPoints           int     `hcl:"loss_points,optional"`
}

// BlackjackSettings contains the blackjack awards and timing
type BlackjackSettings struct {
	WinPoints            int `hcl:"win_points,optional"`
	LossPoints           int `hcl:"loss_points,optional"`
	PushPoints           int `hcl:"push_points,optional"`
	ActionTimeoutSeconds int `hcl:"action_timeout_seconds,optional"`
}

// DuelSettings contains the word duel tuning
type DuelSettings struct {
	StartingHealth     int `hcl:"starting_health,optional"`
	WinPoints          int `hcl:"win_points,optional"`
	WinCoins           int `hcl:"win_coins,optional"`
	TurnTimeoutSeconds int `hcl:"turn_timeout_seconds,optional"`
}

// GiftHuntSettings contains the gift hunt tuning
type GiftHuntSettings struct {
	TotalGifts         int     `hcl:"total_gifts,optional"`
	MultiplierMin      float64 `hcl:"multiplier_min,optional"`
	MultiplierMax      float64 `hcl:"multiplier_max,optional"`
	PickTimeoutSeconds int     `hcl:"pick_timeout_seconds,optional"`
}

// LotterySettings contains the daily lottery tuning. The draw hour is a
// pointer for the same midnight-is-legal reason as the reset hour.
type LotterySettings struct {
	TicketCost      int    `hcl:"ticket_cost,optional"`
	InitialPot      int    `hcl:"initial_pot,optional"`
	DrawHourUTC     *int   `hcl:"draw_hour_utc,optional"`
	StatePath       string `hcl:"state_path,optional"`
	AnnounceChannel string `hcl:"announce_channel,optional"`
}

// Default returns the production configuration
func Default() *Config {
	rules := table.DefaultRules()
	eco := economy.DefaultConfig()
	bj := blackjack.DefaultConfig()
	dl := duel.DefaultConfig()
	gh := gifthunt.DefaultConfig()
	lt := lottery.DefaultConfig()

	return &Config{
		Server: &ServerSettings{
			Address:    "localhost",
			Port:       8080,
			LogLevel:   "info",
			LedgerPath: "cardroom_ledger.json",
		},
		Economy: &EconomySettings{
			MessagePoints: eco.MessagePoints,
			VoicePoints:   eco.VoicePoints,
			OnlinePoints:  eco.OnlinePoints,
			ResetHourUTC:  intPtr(eco.ResetHourUTC),
		},
		Poker: &PokerSettings{
			PreflopCapMultiple:   rules.PreflopCapMultiple,
			FlopCapMultiple:      rules.FlopCapMultiple,
			TurnCapMultiple:      rules.TurnCapMultiple,
			RiverCapMultiple:     rules.RiverCapMultiple,
			ActionTimeoutSeconds: int(rules.ActionTimeout / time.Second),
			JoinWindowSeconds:    int(rules.JoinWindow / time.Second),
			MinPlayers:           rules.MinPlayers,
			MaxPlayers:           rules.MaxPlayers,
			WinPoints:            rules.WinPoints,
			LossPoints:           rules.LossPoints,
		},
		Blackjack: &BlackjackSettings{
			WinPoints:            bj.WinPoints,
			LossPoints:           bj.LossPoints,
			PushPoints:           bj.PushPoints,
			ActionTimeoutSeconds: int(bj.ActionTimeout / time.Second),
		},
		Duel: &DuelSettings{
			StartingHealth:     dl.StartingHealth,
			WinPoints:          dl.WinPoints,
			WinCoins:           dl.WinCoins,
			TurnTimeoutSeconds: int(dl.TurnTimeout / time.Second),
		},
		GiftHunt: &GiftHuntSettings{
			TotalGifts:         gh.TotalGifts,
			MultiplierMin:      gh.MultiplierMin,
			MultiplierMax:      gh.MultiplierMax,
			PickTimeoutSeconds: int(gh.PickTimeout / time.Second),
		},
		Lottery: &LotterySettings{
			TicketCost:      lt.TicketCost,
			InitialPot:      lt.InitialPot,
			DrawHourUTC:     intPtr(lt.DrawHourUTC),
			StatePath:       "cardroom_lottery.json",
			AnnounceChannel: "lobby",
		},
	}
}

func intPtr(v int) *int { return &v }

// Load reads the configuration from an HCL file. A missing file returns
// the defaults; a present file is merged over them.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills every absent block and zero-valued field
func (c *Config) applyDefaults() {
	def := Default()

	if c.Server == nil {
		c.Server = def.Server
	} else {
		if c.Server.Address == "" {
			c.Server.Address = def.Server.Address
		}
		if c.Server.Port == 0 {
			c.Server.Port = def.Server.Port
		}
		if c.Server.LogLevel == "" {
			c.Server.LogLevel = def.Server.LogLevel
		}
		if c.Server.LedgerPath == "" {
			c.Server.LedgerPath = def.Server.LedgerPath
		}
	}

	if c.Economy == nil {
		c.Economy = def.Economy
	} else {
		if c.Economy.MessagePoints == 0 {
			c.Economy.MessagePoints = def.Economy.MessagePoints
		}
		if c.Economy.VoicePoints == 0 {
			c.Economy.VoicePoints = def.Economy.VoicePoints
		}
		if c.Economy.OnlinePoints == 0 {
			c.Economy.OnlinePoints = def.Economy.OnlinePoints
		}
		if c.Economy.ResetHourUTC == nil {
			c.Economy.ResetHourUTC = def.Economy.ResetHourUTC
		}
	}

	if c.Poker == nil {
		c.Poker = def.Poker
	} else {
		if c.Poker.PreflopCapMultiple == 0 {
			c.Poker.PreflopCapMultiple = def.Poker.PreflopCapMultiple
		}
		if c.Poker.FlopCapMultiple == 0 {
			c.Poker.FlopCapMultiple = def.Poker.FlopCapMultiple
		}
		if c.Poker.TurnCapMultiple == 0 {
			c.Poker.TurnCapMultiple = def.Poker.TurnCapMultiple
		}
		if c.Poker.RiverCapMultiple == 0 {
			c.Poker.RiverCapMultiple = def.Poker.RiverCapMultiple
		}
		if c.Poker.ActionTimeoutSeconds == 0 {
			c.Poker.ActionTimeoutSeconds = def.Poker.ActionTimeoutSeconds
		}
		if c.Poker.JoinWindowSeconds == 0 {
			c.Poker.JoinWindowSeconds = def.Poker.JoinWindowSeconds
		}
		if c.Poker.MinPlayers == 0 {
			c.Poker.MinPlayers = def.Poker.MinPlayers
		}
		if c.Poker.MaxPlayers == 0 {
			c.Poker.MaxPlayers = def.Poker.MaxPlayers
		}
		if c.Poker.WinPoints == 0 {
			c.Poker.WinPoints = def.Poker.WinPoints
		}
		if c.Poker.LossPoints == 0 {
			c.Poker.LossPoints = def.Poker.LossPoints
		}
	}

	if c.Blackjack == nil {
		c.Blackjack = def.Blackjack
	} else {
		if c.Blackjack.WinPoints == 0 {
			c.Blackjack.WinPoints = def.Blackjack.WinPoints
		}
		if c.Blackjack.LossPoints == 0 {
			c.Blackjack.LossPoints = def.Blackjack.LossPoints
		}
		if c.Blackjack.PushPoints == 0 {
			c.Blackjack.PushPoints = def.Blackjack.PushPoints
		}
		if c.Blackjack.ActionTimeoutSeconds == 0 {
			c.Blackjack.ActionTimeoutSeconds = def.Blackjack.ActionTimeoutSeconds
		}
	}

	if c.Duel == nil {
		c.Duel = def.Duel
	} else {
		if c.Duel.StartingHealth == 0 {
			c.Duel.StartingHealth = def.Duel.StartingHealth
		}
		if c.Duel.WinPoints == 0 {
			c.Duel.WinPoints = def.Duel.WinPoints
		}
		if c.Duel.WinCoins == 0 {
			c.Duel.WinCoins = def.Duel.WinCoins
		}
		if c.Duel.TurnTimeoutSeconds == 0 {
			c.Duel.TurnTimeoutSeconds = def.Duel.TurnTimeoutSeconds
		}
	}

	if c.GiftHunt == nil {
		c.GiftHunt = def.GiftHunt
	} else {
		if c.GiftHunt.TotalGifts == 0 {
			c.GiftHunt.TotalGifts = def.GiftHunt.TotalGifts
		}
		if c.GiftHunt.MultiplierMin == 0 {
			c.GiftHunt.MultiplierMin = def.GiftHunt.MultiplierMin
		}
		if c.GiftHunt.MultiplierMax == 0 {
			c.GiftHunt.MultiplierMax = def.GiftHunt.MultiplierMax
		}
		if c.GiftHunt.PickTimeoutSeconds == 0 {
			c.GiftHunt.PickTimeoutSeconds = def.GiftHunt.PickTimeoutSeconds
		}
	}

	if c.Lottery == nil {
		c.Lottery = def.Lottery
	} else {
		if c.Lottery.TicketCost == 0 {
			c.Lottery.TicketCost = def.Lottery.TicketCost
		}
		if c.Lottery.InitialPot == 0 {
			c.Lottery.InitialPot = def.Lottery.InitialPot
		}
		if c.Lottery.DrawHourUTC == nil {
			c.Lottery.DrawHourUTC = def.Lottery.DrawHourUTC
		}
		if c.Lottery.StatePath == "" {
			c.Lottery.StatePath = def.Lottery.StatePath
		}
		if c.Lottery.AnnounceChannel == "" {
			c.Lottery.AnnounceChannel = def.Lottery.AnnounceChannel
		}
	}
}

// Validate rejects configurations the games cannot run under
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if *c.Economy.ResetHourUTC < 0 || *c.Economy.ResetHourUTC > 23 {
		return fmt.Errorf("reset hour %d out of range", *c.Economy.ResetHourUTC)
	}
	if c.Poker.MinPlayers < 2 {
		return fmt.Errorf("poker min_players %d must be at least 2", c.Poker.MinPlayers)
	}
	if c.Poker.MaxPlayers < c.Poker.MinPlayers {
		return fmt.Errorf("poker max_players %d below min_players %d", c.Poker.MaxPlayers, c.Poker.MinPlayers)
	}
	for name, mult := range map[string]float64{
		"preflop_cap_multiple": c.Poker.PreflopCapMultiple,
		"flop_cap_multiple":    c.Poker.FlopCapMultiple,
		"turn_cap_multiple":    c.Poker.TurnCapMultiple,
		"river_cap_multiple":   c.Poker.RiverCapMultiple,
	} {
		if mult <= 0 {
			return fmt.Errorf("poker %s must be positive", name)
		}
	}
	if c.GiftHunt.TotalGifts < 3 {
		return fmt.Errorf("gifthunt total_gifts %d must be at least 3", c.GiftHunt.TotalGifts)
	}
	if c.GiftHunt.MultiplierMax < c.GiftHunt.MultiplierMin {
		return fmt.Errorf("gifthunt multiplier_max %.2f below multiplier_min %.2f", c.GiftHunt.MultiplierMax, c.GiftHunt.MultiplierMin)
	}
	if c.Duel.StartingHealth < 1 {
		return fmt.Errorf("duel starting_health %d must be positive", c.Duel.StartingHealth)
	}
	if c.Lottery.TicketCost < 1 {
		return fmt.Errorf("lottery ticket_cost %d must be positive", c.Lottery.TicketCost)
	}
	if c.Lottery.InitialPot < 0 {
		return fmt.Errorf("lottery initial_pot %d must not be negative", c.Lottery.InitialPot)
	}
	if *c.Lottery.DrawHourUTC < 0 || *c.Lottery.DrawHourUTC > 23 {
		return fmt.Errorf("lottery draw hour %d out of range", *c.Lottery.DrawHourUTC)
	}
	return nil
}

// PokerRules converts the poker settings into engine rules
func (c *Config) PokerRules() table.Rules {
	return table.Rules{
		PreflopCapMultiple: c.Poker.PreflopCapMultiple,
		FlopCapMultiple:    c.Poker.FlopCapMultiple,
		TurnCapMultiple:    c.Poker.TurnCapMultiple,
		RiverCapMultiple:   c.Poker.RiverCapMultiple,
		ActionTimeout:      time.Duration(c.Poker.ActionTimeoutSeconds) * time.Second,
		JoinWindow:         time.Duration(c.Poker.JoinWindowSeconds) * time.Second,
		MinPlayers:         c.Poker.MinPlayers,
		MaxPlayers:         c.Poker.MaxPlayers,
		WinPoints:          c.Poker.WinPoints,
		LossPoints:         c.Poker.LossPoints,
	}
}

// EconomyConfig converts the economy settings
func (c *Config) EconomyConfig() economy.Config {
	return economy.Config{
		MessagePoints: c.Economy.MessagePoints,
		VoicePoints:   c.Economy.VoicePoints,
		OnlinePoints:  c.Economy.OnlinePoints,
		ResetHourUTC:  *c.Economy.ResetHourUTC,
	}
}

// BlackjackConfig converts the blackjack settings
func (c *Config) BlackjackConfig() blackjack.Config {
	return blackjack.Config{
		WinPoints:     c.Blackjack.WinPoints,
		LossPoints:    c.Blackjack.LossPoints,
		PushPoints:    c.Blackjack.PushPoints,
		ActionTimeout: time.Duration(c.Blackjack.ActionTimeoutSeconds) * time.Second,
	}
}

// DuelConfig converts the duel settings
func (c *Config) DuelConfig() duel.Config {
	return duel.Config{
		StartingHealth: c.Duel.StartingHealth,
		WinPoints:      c.Duel.WinPoints,
		WinCoins:       c.Duel.WinCoins,
		TurnTimeout:    time.Duration(c.Duel.TurnTimeoutSeconds) * time.Second,
	}
}

// GiftHuntConfig converts the gift hunt settings
func (c *Config) GiftHuntConfig() gifthunt.Config {
	return gifthunt.Config{
		TotalGifts:    c.GiftHunt.TotalGifts,
		MultiplierMin: c.GiftHunt.MultiplierMin,
		MultiplierMax: c.GiftHunt.MultiplierMax,
		PickTimeout:   time.Duration(c.GiftHunt.PickTimeoutSeconds) * time.Second,
	}
}

// LotteryConfig converts the lottery settings
func (c *Config) LotteryConfig() lottery.Config {
	return lottery.Config{
		TicketCost:  c.Lottery.TicketCost,
		InitialPot:  c.Lottery.InitialPot,
		DrawHourUTC: *c.Lottery.DrawHourUTC,
	}
}
