package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/shoe"
)

// DefaultFile is the config file read when no path is given
const DefaultFile = "blackjack.hcl"

// Config represents the complete blackjack configuration
type Config struct {
	Table  TableSettings  `hcl:"table,block"`
	Timing TimingSettings `hcl:"timing,block"`
	Store  StoreSettings  `hcl:"store,block"`
	UI     UISettings     `hcl:"ui,block"`
}

// TableSettings contains the shoe and betting limits
type TableSettings struct {
	Decks       int     `hcl:"decks,optional"`
	MinBet      int     `hcl:"min_bet,optional"`
	MaxBet      int     `hcl:"max_bet,optional"`
	ReshuffleAt float64 `hcl:"reshuffle_at,optional"`
}

// TimingSettings contains the scheduled step delays in milliseconds
type TimingSettings struct {
	DealSettleMS int `hcl:"deal_settle_ms,optional"`
	DealerStepMS int `hcl:"dealer_step_ms,optional"`
	NoticeMS     int `hcl:"notice_ms,optional"`
}

// StoreSettings contains the token store settings
type StoreSettings struct {
	DSN            string `hcl:"dsn,optional"`
	StartingTokens int    `hcl:"starting_tokens,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	Theme    string `hcl:"theme,optional"`
}

// Default returns the default configuration
func Default() *Config {
	game := blackjack.DefaultConfig()
	return &Config{
		Table: TableSettings{
			Decks:       shoe.DefaultDecks,
			MinBet:      game.MinBet,
			MaxBet:      game.MaxBet,
			ReshuffleAt: shoe.DefaultThreshold,
		},
		Timing: TimingSettings{
			DealSettleMS: int(game.DealSettle / time.Millisecond),
			DealerStepMS: int(game.DealerStep / time.Millisecond),
			NoticeMS:     int(game.Notice / time.Millisecond),
		},
		Store: StoreSettings{
			DSN:            "blackjack.db",
			StartingTokens: 0,
		},
		UI: UISettings{
			LogLevel: "warn",
			LogFile:  "blackjack.log",
			Theme:    "default",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults(Default())
	return &config, nil
}

func (c *Config) applyDefaults(defaults *Config) {
	if c.Table.Decks == 0 {
		c.Table.Decks = defaults.Table.Decks
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = defaults.Table.MinBet
	}
	if c.Table.MaxBet == 0 {
		c.Table.MaxBet = defaults.Table.MaxBet
	}
	if c.Table.ReshuffleAt == 0 {
		c.Table.ReshuffleAt = defaults.Table.ReshuffleAt
	}

	if c.Timing.DealSettleMS == 0 {
		c.Timing.DealSettleMS = defaults.Timing.DealSettleMS
	}
	if c.Timing.DealerStepMS == 0 {
		c.Timing.DealerStepMS = defaults.Timing.DealerStepMS
	}
	if c.Timing.NoticeMS == 0 {
		c.Timing.NoticeMS = defaults.Timing.NoticeMS
	}

	if c.Store.DSN == "" {
		c.Store.DSN = defaults.Store.DSN
	}

	if c.UI.LogLevel == "" {
		c.UI.LogLevel = defaults.UI.LogLevel
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = defaults.UI.LogFile
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.Decks < 1 {
		return fmt.Errorf("decks must be at least 1")
	}
	if c.Table.MinBet <= 0 {
		return fmt.Errorf("min bet must be positive")
	}
	if c.Table.MaxBet < c.Table.MinBet {
		return fmt.Errorf("max bet %d is below min bet %d", c.Table.MaxBet, c.Table.MinBet)
	}
	if c.Table.ReshuffleAt < 0 || c.Table.ReshuffleAt >= 1 {
		return fmt.Errorf("reshuffle_at must be in [0, 1): %g", c.Table.ReshuffleAt)
	}

	if c.Timing.DealSettleMS < 0 || c.Timing.DealerStepMS < 0 || c.Timing.NoticeMS < 0 {
		return fmt.Errorf("timings cannot be negative")
	}

	if c.Store.DSN == "" {
		return fmt.Errorf("store dsn is required")
	}
	if c.Store.StartingTokens < 0 {
		return fmt.Errorf("starting tokens cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	validThemes := map[string]bool{
		"default": true,
		"dark":    true,
		"light":   true,
	}
	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}

	return nil
}

// Game returns the round configuration
func (c *Config) Game() blackjack.Config {
	game := blackjack.DefaultConfig()
	game.MinBet = c.Table.MinBet
	game.MaxBet = c.Table.MaxBet
	game.DealSettle = time.Duration(c.Timing.DealSettleMS) * time.Millisecond
	game.DealerStep = time.Duration(c.Timing.DealerStepMS) * time.Millisecond
	game.Notice = time.Duration(c.Timing.NoticeMS) * time.Millisecond
	return game
}

// Shoe returns the shoe configuration
func (c *Config) Shoe() shoe.Config {
	return shoe.Config{Decks: c.Table.Decks, Threshold: c.Table.ReshuffleAt}
}
