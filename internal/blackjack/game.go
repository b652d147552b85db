package blackjack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/cards"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/tokens"
)

const (
	msgHitOrStand   = "Hit or Stand?"
	msgDealerTurn   = "Dealer's turn..."
	msgPlayerBusts  = "Player busts! House wins!"
	msgNotEnough    = "You don't have enough tokens!"
	msgShuffling    = "Shuffling decks..."
	msgBetFailed    = "Unable to place bet, try again"
	dealerStandsOn  = 17
	blackjackTarget = 21
)

// Config holds table limits and the delays between scheduled steps
type Config struct {
	MinBet int
	MaxBet int
	// DealSettle is how long Hit stays blocked after a card reaches the player
	DealSettle time.Duration
	// DealerStep is the delay before each dealer draw
	DealerStep time.Duration
	// Notice is how long a transient message stays before reverting
	Notice time.Duration
	// StoreTimeout bounds store calls made from scheduled steps
	StoreTimeout time.Duration
}

// DefaultConfig returns the standard table: bets of 10 to 100 tokens
func DefaultConfig() Config {
	return Config{
		MinBet:       10,
		MaxBet:       100,
		DealSettle:   300 * time.Millisecond,
		DealerStep:   800 * time.Millisecond,
		Notice:       2 * time.Second,
		StoreTimeout: 5 * time.Second,
	}
}

// Round is the state owned by a single round of play
type Round struct {
	ID           string
	Bet          int
	Player       Hand
	Dealer       Hand
	DealerHidden bool
	Outcome      Outcome
	Payout       int
}

// Option configures a Game during creation
type Option func(*Game)

// WithClock sets the clock used for scheduled steps
func WithClock(clock quartz.Clock) Option {
	return func(g *Game) { g.clock = clock }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithConfig replaces the default table configuration
func WithConfig(config Config) Option {
	return func(g *Game) { g.config = config }
}

// WithRoundIDs sets the generator for round identifiers
func WithRoundIDs(next func() string) Option {
	return func(g *Game) { g.nextID = next }
}

// WithObserver registers an observer at creation
func WithObserver(o Observer) Option {
	return func(g *Game) { g.observers = append(g.observers, o) }
}

// Game is the round state machine for one account at one table.
// Intents and scheduled steps are serialized; every change is published
// to observers as a Snapshot.
type Game struct {
	mu        sync.Mutex
	config    Config
	store     tokens.Store
	account   tokens.Account
	shoe      *shoe.Manager
	clock     quartz.Clock
	logger    *log.Logger
	nextID    func() string
	observers []Observer

	state   State
	round   Round
	bet     int
	tokens  int
	message string
	dealing bool
	version uint64

	// epoch identifies the current round; scheduled steps from older epochs are dropped
	epoch     uint64
	noticeSeq uint64
	timers    []*quartz.Timer
}

// NewGame creates a game in the Betting state, reading the account balance
// from the store.
func NewGame(ctx context.Context, store tokens.Store, account tokens.Account, shoeManager *shoe.Manager, opts ...Option) (*Game, error) {
	if store == nil {
		panic("token store is required")
	}
	if shoeManager == nil {
		panic("shoe manager is required")
	}

	g := &Game{
		config:  DefaultConfig(),
		store:   store,
		account: account,
		shoe:    shoeManager,
		clock:   quartz.NewReal(),
		logger:  log.New(io.Discard),
		nextID:  gameid.Generate,
		state:   Betting,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.WithPrefix("game").With("account", string(account))
	g.bet = g.config.MinBet
	g.message = g.prompt()

	balance, err := store.Balance(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("read balance for %s: %w", account, err)
	}
	g.tokens = balance

	return g, nil
}

// Subscribe registers an observer for future snapshots
func (g *Game) Subscribe(o Observer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observers = append(g.observers, o)
}

// Snapshot returns the current view without publishing it
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view()
}

// Close cancels every pending scheduled step
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelPending()
}

// ChangeBet adjusts the bet by delta during Betting, clamped to the table
// limits and the balance. Asking for more than the maximum shows a notice.
func (g *Game) ChangeBet(delta int) bool {
	return g.update(func() bool {
		if !g.state.Accepts(ChangeBetIntent) {
			return false
		}
		requested := g.bet + delta
		g.bet = max(g.config.MinBet, min(g.config.MaxBet, g.tokens, requested))
		if requested > g.config.MaxBet {
			g.notice(fmt.Sprintf("Maximum bet is %d tokens (%s)", g.config.MaxBet, dollars(g.config.MaxBet)), g.prompt())
		}
		g.logger.Debug("Bet changed", "delta", delta, "bet", g.bet)
		return true
	})
}

// Deal debits the bet and deals the opening hands. It returns false when the
// round did not start.
func (g *Game) Deal(ctx context.Context) bool {
	var started bool
	g.update(func() bool {
		if !g.state.Accepts(DealIntent) {
			return false
		}
		started = g.deal(ctx)
		return true
	})
	return started
}

// Hit draws a card for the player. Ignored outside Playing or while the
// previous card is still being dealt.
func (g *Game) Hit(ctx context.Context) bool {
	return g.update(func() bool {
		if !g.state.Accepts(HitIntent) || g.dealing {
			return false
		}
		card := g.draw()
		g.round.Player = g.round.Player.With(card)
		g.logger.Debug("Player hits", "card", card, "score", g.round.Player.Score())
		g.markDealing()
		g.checkPlayer(ctx)
		return true
	})
}

// Stand ends the player's turn and starts the dealer's
func (g *Game) Stand(ctx context.Context) bool {
	return g.update(func() bool {
		if !g.state.Accepts(StandIntent) {
			return false
		}
		g.logger.Debug("Player stands", "score", g.round.Player.Score())
		g.enterDealerTurn(ctx)
		return true
	})
}

// Reset returns to Betting, clearing the round, cancelling pending steps,
// refreshing the balance and reshuffling a low shoe.
func (g *Game) Reset(ctx context.Context) bool {
	return g.update(func() bool {
		if !g.state.Accepts(ResetIntent) {
			return false
		}
		g.cancelPending()
		g.transition(Betting)
		g.round = Round{}
		g.dealing = false
		g.message = g.prompt()
		g.refreshBalance(ctx)

		if g.shoe.CheckReshuffle() {
			g.logger.Info("Shoe below threshold, reshuffled at reset", "reshuffles", g.shoe.Reshuffles())
			g.notice(msgShuffling, g.prompt())
		}
		return true
	})
}

func (g *Game) deal(ctx context.Context) bool {
	if g.bet > g.tokens {
		g.message = msgNotEnough
		return false
	}

	if err := g.store.Debit(ctx, g.account, g.bet); err != nil {
		g.logger.Error("Failed to debit bet", "bet", g.bet, "error", err)
		if errors.Is(err, tokens.ErrInsufficientTokens) {
			g.message = msgNotEnough
			g.refreshBalance(ctx)
		} else {
			g.message = msgBetFailed
		}
		return false
	}
	g.tokens -= g.bet

	g.cancelPending()
	g.round = Round{ID: g.nextID(), Bet: g.bet}
	g.transition(Playing)
	g.message = msgHitOrStand
	g.logger.Info("Round started", "round", g.round.ID, "bet", g.bet, "tokens", g.tokens)

	g.round.Player = g.round.Player.With(g.draw())
	g.round.Player = g.round.Player.With(g.draw())
	g.round.Dealer = g.round.Dealer.With(g.draw())
	g.round.Dealer = g.round.Dealer.With(g.draw())
	g.round.DealerHidden = true
	g.logger.Debug("Opening hands dealt",
		"player", g.round.Player,
		"playerScore", g.round.Player.Score())

	g.markDealing()
	g.checkPlayer(ctx)
	return true
}

// checkPlayer ends the round on a bust and skips to the dealer on a natural
func (g *Game) checkPlayer(ctx context.Context) {
	if g.state != Playing {
		return
	}
	score := g.round.Player.Score()
	switch {
	case score > blackjackTarget:
		g.finish(PlayerBust, msgPlayerBusts)
	case score == blackjackTarget && g.round.Player.Len() == 2:
		g.enterDealerTurn(ctx)
	}
}

func (g *Game) enterDealerTurn(ctx context.Context) {
	g.transition(DealerTurn)
	g.round.DealerHidden = false
	g.message = msgDealerTurn
	g.logger.Debug("Dealer reveals", "dealer", g.round.Dealer, "score", g.round.Dealer.Score())
	g.dealerStep(ctx)
}

// dealerStep settles once the dealer reaches 17, otherwise schedules one draw
func (g *Game) dealerStep(ctx context.Context) {
	if g.round.Dealer.Score() >= dealerStandsOn {
		g.settle(ctx)
		return
	}
	g.schedule(g.config.DealerStep, "dealer-draw", func(ctx context.Context) {
		if g.state != DealerTurn {
			return
		}
		card := g.draw()
		g.round.Dealer = g.round.Dealer.With(card)
		g.logger.Debug("Dealer draws", "card", card, "score", g.round.Dealer.Score())
		g.dealerStep(ctx)
	})
}

func (g *Game) settle(ctx context.Context) {
	outcome := Settle(g.round.Player, g.round.Dealer)
	payout := Payout(outcome, g.round.Bet)
	g.round.Payout = payout

	if payout > 0 {
		if err := g.store.Credit(ctx, g.account, payout); err != nil {
			g.logger.Error("Failed to credit payout", "round", g.round.ID, "payout", payout, "error", err)
		} else {
			g.tokens += payout
		}
	}

	g.finish(outcome, outcome.Message())
}

func (g *Game) finish(outcome Outcome, message string) {
	g.round.Outcome = outcome
	g.round.DealerHidden = false
	g.transition(GameOver)
	g.message = message
	g.logger.Info("Round settled",
		"round", g.round.ID,
		"outcome", outcome,
		"player", g.round.Player.Score(),
		"dealer", g.round.Dealer.Score(),
		"bet", g.round.Bet,
		"payout", g.round.Payout,
		"tokens", g.tokens)
}

// draw takes the next card, rebuilding an empty shoe first
func (g *Game) draw() cards.Card {
	card, reshuffled, err := g.shoe.Draw()
	if errors.Is(err, shoe.ErrEmptyShoe) {
		g.logger.Warn("Shoe empty, reshuffling")
		g.shoe.Reshuffle()
		g.notice(msgShuffling, g.message)
		card, reshuffled, err = g.shoe.Draw()
	}
	if err != nil {
		panic(fmt.Sprintf("draw from rebuilt shoe: %v", err))
	}
	if reshuffled {
		g.logger.Info("Shoe below threshold, reshuffled", "reshuffles", g.shoe.Reshuffles())
	}
	return card
}

func (g *Game) markDealing() {
	g.dealing = true
	g.schedule(g.config.DealSettle, "deal-settle", func(context.Context) {
		g.dealing = false
	})
}

// notice shows message until the notice delay passes, then restores revert
// unless something else replaced it first
func (g *Game) notice(message, revert string) {
	g.message = message
	g.noticeSeq++
	seq := g.noticeSeq
	g.schedule(g.config.Notice, "notice", func(context.Context) {
		if g.noticeSeq == seq && g.message == message {
			g.message = revert
		}
	})
}

func (g *Game) refreshBalance(ctx context.Context) {
	balance, err := g.store.Balance(ctx, g.account)
	if err != nil {
		g.logger.Warn("Failed to refresh balance", "error", err)
		return
	}
	g.tokens = balance
}

func (g *Game) transition(next State) {
	if !g.state.CanTransition(next) {
		panic(fmt.Sprintf("illegal transition %s -> %s", g.state, next))
	}
	g.logger.Debug("State transition", "from", g.state, "to", next)
	g.state = next
}

// dollars prices tokens at one dollar per pack
func dollars(n int) string {
	if n%tokens.PackSize == 0 {
		return fmt.Sprintf("$%d", n/tokens.PackSize)
	}
	return fmt.Sprintf("$%.2f", float64(n)/tokens.PackSize)
}

func (g *Game) prompt() string {
	return fmt.Sprintf("Place your bet! (Max: %d tokens)", g.config.MaxBet)
}

// schedule runs fn after d under the game lock, unless the round has moved
// on by then
func (g *Game) schedule(d time.Duration, step string, fn func(ctx context.Context)) {
	epoch := g.epoch
	timer := g.clock.AfterFunc(d, func() {
		g.update(func() bool {
			if g.epoch != epoch {
				g.logger.Debug("Dropped stale step", "step", step)
				return false
			}
			ctx, cancel := context.WithTimeout(context.Background(), g.config.StoreTimeout)
			defer cancel()
			fn(ctx)
			return true
		})
	}, "blackjack", step)
	g.timers = append(g.timers, timer)
}

func (g *Game) cancelPending() {
	for _, t := range g.timers {
		t.Stop()
	}
	g.timers = nil
	g.epoch++
}

// update applies fn under the lock and publishes a snapshot if fn reports a change
func (g *Game) update(fn func() bool) bool {
	g.mu.Lock()
	if !fn() {
		g.mu.Unlock()
		return false
	}
	g.version++
	snap := g.view()
	observers := g.observers
	g.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
	return true
}

func (g *Game) view() Snapshot {
	return Snapshot{
		RoundID:       g.round.ID,
		Version:       g.version,
		State:         g.state,
		Player:        g.round.Player.Cards(),
		Dealer:        g.round.Dealer.Cards(),
		PlayerScore:   g.round.Player.Score(),
		DealerScore:   g.round.Dealer.Score(),
		DealerHidden:  g.round.DealerHidden,
		Dealing:       g.dealing,
		Message:       g.message,
		Bet:           g.bet,
		Tokens:        g.tokens,
		Outcome:       g.round.Outcome,
		Payout:        g.round.Payout,
		ShoeRemaining: g.shoe.Remaining(),
	}
}
