package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/tokens"
)

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"blackjack.hcl" help:"Path to HCL configuration file"`
	Account  string `short:"a" default:"${user}" help:"Account to play as (defaults to $USER)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file path (overrides config)"`
	DSN      string `help:"Token database path (overrides config)"`
	Seed     int64  `default:"0" help:"RNG seed (0 for random)"`
}

// load reads the config file and applies command line overrides
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if g.LogLevel != "" {
		cfg.UI.LogLevel = g.LogLevel
	}
	if g.LogFile != "" {
		cfg.UI.LogFile = g.LogFile
	}
	if g.DSN != "" {
		cfg.Store.DSN = g.DSN
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (g *Globals) account() (tokens.Account, error) {
	account := strings.TrimSpace(g.Account)
	if account == "" {
		return "", fmt.Errorf("account is required: pass --account or set $USER")
	}
	return tokens.Account(account), nil
}

// openStore opens the token database and creates the account on first use
func (g *Globals) openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*tokens.SQLStore, tokens.Account, error) {
	account, err := g.account()
	if err != nil {
		return nil, "", err
	}

	store, err := tokens.OpenSQLite(cfg.Store.DSN)
	if err != nil {
		return nil, "", err
	}

	created, err := store.EnsureAccount(ctx, account, cfg.Store.StartingTokens)
	if err != nil {
		_ = store.Close()
		return nil, "", err
	}
	if created {
		logger.Info("Created account", "account", string(account), "tokens", cfg.Store.StartingTokens)
	}
	return store, account, nil
}
