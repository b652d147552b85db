package main

import (
	"os"
	"time"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

type SimulateCmd struct {
	Rounds         int           `default:"10000" help:"Rounds to play per table"`
	Tables         int           `default:"4" help:"Tables to play in parallel"`
	Bet            int           `default:"0" help:"Tokens per round (0 for the table minimum)"`
	StandOn        int           `default:"17" help:"Player hits below this score"`
	StartingTokens int           `default:"1000" help:"Starting tokens per table"`
	Timeout        time.Duration `default:"5s" help:"Timeout per round"`
	Output         string        `short:"o" help:"Also write a JSON report to this path"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	logger := shared.SetupLogger(os.Stderr, cfg.UI.LogLevel)
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	game := cfg.Game()
	game.DealSettle = 0
	game.DealerStep = 0
	game.Notice = 0

	config := simulator.DefaultConfig()
	config.Rounds = c.Rounds
	config.Tables = c.Tables
	config.Bet = c.Bet
	if config.Bet == 0 {
		config.Bet = game.MinBet
	}
	config.StandOn = c.StandOn
	config.StartingTokens = c.StartingTokens
	config.Seed = randutil.Seed(g.Seed)
	config.Timeout = c.Timeout
	config.Game = game
	config.Shoe = cfg.Shoe()
	config.Logger = logger

	logger.Info("Starting simulation",
		"rounds", config.Rounds,
		"tables", config.Tables,
		"bet", config.Bet,
		"seed", config.Seed)

	start := time.Now()
	stats, err := simulator.New(config).Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, stats)
	if c.Output != "" {
		if err := simulator.WriteReport(c.Output, stats); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Output)
	}
	logger.Info("Simulation complete", "rounds", stats.Rounds, "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
