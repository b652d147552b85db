package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/tokens"
)

type TokensCmd struct {
	Buy     TokensBuyCmd     `cmd:"" help:"Buy token packs of 100 tokens"`
	Balance TokensBalanceCmd `cmd:"" help:"Show the token balance"`
}

type TokensBuyCmd struct {
	Packs int `arg:"" optional:"" default:"1" help:"Number of packs to buy"`
}

func (c *TokensBuyCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(os.Stderr, cfg.UI.LogLevel)
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	store, account, err := g.openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	balance, err := tokens.Purchase(ctx, store, account, c.Packs)
	if err != nil {
		return err
	}
	logger.Info("Purchased tokens", "account", string(account), "packs", c.Packs, "balance", balance)
	fmt.Printf("Bought %d tokens for %s, balance is now %d\n", c.Packs*tokens.PackSize, account, balance)
	return nil
}

type TokensBalanceCmd struct{}

func (c *TokensBalanceCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(os.Stderr, cfg.UI.LogLevel)
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	store, account, err := g.openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	balance, err := store.Balance(ctx, account)
	if err != nil {
		return err
	}
	fmt.Printf("%s has %d tokens\n", account, balance)
	return nil
}
