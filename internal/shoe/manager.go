package shoe

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/cards"
)

const (
	// DefaultDecks is the number of decks in a fresh shoe
	DefaultDecks = 6
	// DefaultThreshold is the remaining fraction below which the shoe is rebuilt
	DefaultThreshold = 0.25
)

// Config controls shoe construction and the reshuffle policy
type Config struct {
	Decks int
	// Threshold is the fraction of capacity below which the shoe is replaced.
	// Zero disables post-draw reshuffles.
	Threshold float64
}

// DefaultConfig returns six decks with a 25% reshuffle threshold
func DefaultConfig() Config {
	return Config{Decks: DefaultDecks, Threshold: DefaultThreshold}
}

// Manager owns the current shoe and rebuilds it when it runs low.
// It is not safe for concurrent use.
type Manager struct {
	rng        *rand.Rand
	config     Config
	shoe       Shoe
	reshuffles int
	logger     *log.Logger
}

// NewManager creates a manager holding a freshly built shoe
func NewManager(rng *rand.Rand, config Config, logger *log.Logger) *Manager {
	if config.Decks < 1 {
		config.Decks = DefaultDecks
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Manager{
		rng:    rng,
		config: config,
		logger: logger.WithPrefix("shoe"),
	}
	m.shoe = New(rng, config.Decks)
	return m
}

// Draw deals the top card. When the draw leaves the shoe below the threshold
// the shoe is replaced by a new full one and reshuffled is true. ErrEmptyShoe
// is returned unchanged; callers reshuffle and retry.
func (m *Manager) Draw() (card cards.Card, reshuffled bool, err error) {
	card, next, err := m.shoe.Draw()
	if err != nil {
		return cards.Card{}, false, err
	}
	m.shoe = next

	if m.NeedsReshuffle() {
		m.Reshuffle()
		return card, true, nil
	}
	return card, false, nil
}

// NeedsReshuffle reports whether the current shoe is below the threshold
func (m *Manager) NeedsReshuffle() bool {
	return m.config.Threshold > 0 && m.shoe.BelowThreshold(m.config.Threshold)
}

// CheckReshuffle rebuilds the shoe if it is below the threshold
func (m *Manager) CheckReshuffle() bool {
	if !m.NeedsReshuffle() {
		return false
	}
	m.Reshuffle()
	return true
}

// Reshuffle discards the current shoe and builds a new full one.
// Dealt cards are never reclaimed.
func (m *Manager) Reshuffle() {
	remaining := m.shoe.Remaining()
	m.shoe = New(m.rng, m.config.Decks)
	m.reshuffles++
	m.logger.Debug("Reshuffled shoe",
		"discarded", remaining,
		"cards", m.shoe.Remaining(),
		"reshuffles", m.reshuffles)
}

// Load replaces the current shoe, e.g. with a stacked shoe in tests
func (m *Manager) Load(s Shoe) {
	m.shoe = s
}

// Shoe returns the current shoe value
func (m *Manager) Shoe() Shoe {
	return m.shoe
}

// Remaining returns the number of cards left in the current shoe
func (m *Manager) Remaining() int {
	return m.shoe.Remaining()
}

// Reshuffles returns how many times the shoe has been rebuilt
func (m *Manager) Reshuffles() int {
	return m.reshuffles
}
