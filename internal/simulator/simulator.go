package simulator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/tokens"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds         int // Rounds per table
	Tables         int
	Bet            int
	StandOn        int // Player hits below this score
	StartingTokens int
	Seed           int64
	Timeout        time.Duration // Per round
	Game           blackjack.Config
	Shoe           shoe.Config
	Logger         *log.Logger
}

// DefaultConfig returns a single table of 1000 rounds at the minimum bet
// with a player that mimics the dealer
func DefaultConfig() Config {
	game := blackjack.DefaultConfig()
	game.DealSettle = 0
	game.DealerStep = 0
	game.Notice = 0
	return Config{
		Rounds:         1000,
		Tables:         1,
		Bet:            game.MinBet,
		StandOn:        17,
		StartingTokens: tokens.PackSize,
		Timeout:        5 * time.Second,
		Game:           game,
		Shoe:           shoe.DefaultConfig(),
	}
}

// Simulator plays headless rounds against the house
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Tables < 1 {
		config.Tables = 1
	}
	return &Simulator{config: config}
}

// Run plays every table in parallel and returns the merged statistics
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	results := make([]*statistics.Statistics, s.config.Tables)

	g, ctx := errgroup.WithContext(ctx)
	for i := range s.config.Tables {
		g.Go(func() error {
			stats, err := s.playTable(ctx, i)
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, stats := range results {
		total.Merge(stats)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return total, nil
}

// table drives one Game, waking on every published snapshot
type table struct {
	game   *blackjack.Game
	notify chan struct{}
}

func (t *table) waitFor(ctx context.Context, ready func(blackjack.Snapshot) bool) (blackjack.Snapshot, error) {
	for {
		snap := t.game.Snapshot()
		if ready(snap) {
			return snap, nil
		}
		select {
		case <-t.notify:
		case <-ctx.Done():
			return snap, fmt.Errorf("waiting in %s: %w", snap.State, ctx.Err())
		}
	}
}

func (s *Simulator) playTable(ctx context.Context, index int) (*statistics.Statistics, error) {
	seed := randutil.Derive(s.config.Seed, index)
	logger := s.config.Logger.With("table", index)
	account := tokens.Account(fmt.Sprintf("table-%d", index))

	store := tokens.NewMemoryStore()
	if _, err := store.EnsureAccount(ctx, account, s.config.StartingTokens); err != nil {
		return nil, err
	}
	manager := shoe.NewManager(randutil.New(seed), s.config.Shoe, logger)

	t := &table{notify: make(chan struct{}, 1)}
	game, err := blackjack.NewGame(ctx, store, account, manager,
		blackjack.WithConfig(s.config.Game),
		blackjack.WithLogger(logger),
		blackjack.WithObserver(func(blackjack.Snapshot) {
			select {
			case t.notify <- struct{}{}:
			default:
			}
		}))
	if err != nil {
		return nil, err
	}
	t.game = game
	defer game.Close()

	stats := &statistics.Statistics{}
	for round := range s.config.Rounds {
		result, err := s.playRoundWithTimeout(ctx, t, store, account, stats)
		if err != nil {
			return nil, fmt.Errorf("round %d (seed %d): %w", round+1, seed, err)
		}
		result.Table = index
		stats.Add(result)
	}

	game.Close()
	stats.Reshuffles = manager.Reshuffles()
	logger.Debug("Table finished", "rounds", stats.Rounds, "net", stats.SumNet, "reshuffles", stats.Reshuffles)
	return stats, nil
}

// playRoundWithTimeout plays one round with the dealer-mimic policy
func (s *Simulator) playRoundWithTimeout(ctx context.Context, t *table, store tokens.Store, account tokens.Account, stats *statistics.Statistics) (statistics.RoundResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if balance := t.game.Snapshot().Tokens; balance < s.config.Bet {
		packs := (s.config.Bet - balance + tokens.PackSize - 1) / tokens.PackSize
		if _, err := tokens.Purchase(ctx, store, account, packs); err != nil {
			return statistics.RoundResult{}, err
		}
		stats.Purchases += packs
		// Reset during Betting picks up the new balance
		t.game.Reset(ctx)
	}

	t.game.ChangeBet(s.config.Bet - t.game.Snapshot().Bet)
	if !t.game.Deal(ctx) {
		return statistics.RoundResult{}, fmt.Errorf("deal refused: %s", t.game.Snapshot().Message)
	}

	for {
		snap, err := t.waitFor(ctx, func(v blackjack.Snapshot) bool {
			return v.State != blackjack.Playing || !v.Dealing
		})
		if err != nil {
			return statistics.RoundResult{}, err
		}
		if snap.State != blackjack.Playing {
			break
		}
		if snap.PlayerScore < s.config.StandOn {
			t.game.Hit(ctx)
		} else {
			t.game.Stand(ctx)
		}
	}

	snap, err := t.waitFor(ctx, func(v blackjack.Snapshot) bool {
		return v.State == blackjack.GameOver
	})
	if err != nil {
		return statistics.RoundResult{}, err
	}
	t.game.Reset(ctx)

	return statistics.RoundResult{
		Bet:         snap.Bet,
		Payout:      snap.Payout,
		Outcome:     snap.Outcome,
		PlayerCards: len(snap.Player),
		DealerCards: len(snap.Dealer),
	}, nil
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS ===\n")
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Rounds)
	fmt.Fprintf(w, "Wagered: %d tokens, returned: %d tokens (RTP %.2f%%)\n",
		stats.Wagered, stats.Returned, stats.ReturnToPlayer()*100)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f tokens/round\n", stats.Mean())
	fmt.Fprintf(w, "Std Dev: %.4f tokens\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f tokens\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] tokens/round\n", low, high)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	for _, outcome := range []blackjack.Outcome{
		blackjack.Blackjack, blackjack.PlayerWin, blackjack.DealerBust,
		blackjack.Push, blackjack.DealerWin, blackjack.PlayerBust,
	} {
		n := stats.Outcomes[outcome]
		fmt.Fprintf(w, "%-12s %6d (%.1f%%)\n", outcome, n, float64(n)/float64(max(stats.Rounds, 1))*100)
	}
	fmt.Fprintf(w, "Wins: %d, losses: %d\n", stats.Wins(), stats.Losses())

	fmt.Fprintf(w, "\n=== SHOE ===\n")
	fmt.Fprintf(w, "Reshuffles: %d, token packs bought: %d\n", stats.Reshuffles, stats.Purchases)
}
