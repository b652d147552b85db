package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/tui"
)

type PlayCmd struct {
	Theme   string `help:"Colour theme: default, dark or light (overrides config)"`
	NoColor bool   `help:"Disable colours"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Theme != "" {
		cfg.UI.Theme = c.Theme
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// The TUI owns the terminal, so logs go to a rotating file
	logger, closer := shared.SetupFileLogger(cfg.UI.LogFile, cfg.UI.LogLevel)
	defer func() { _ = closer.Close() }()

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	store, account, err := g.openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	seed := randutil.Seed(g.Seed)
	logger.Info("Starting blackjack", "account", string(account), "seed", seed, "config", g.Config)

	manager := shoe.NewManager(randutil.New(seed), cfg.Shoe(), logger)
	game, err := blackjack.NewGame(ctx, store, account, manager,
		blackjack.WithConfig(cfg.Game()),
		blackjack.WithLogger(logger))
	if err != nil {
		return err
	}
	defer game.Close()

	if c.NoColor {
		tui.DisableColor()
	}
	tui.ApplyTheme(cfg.UI.Theme)

	model := tui.NewModel(ctx, game, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	game.Subscribe(tui.Observer(program))

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
