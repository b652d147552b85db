package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/cards"
)

// Table is the set of intents the TUI sends to a game
type Table interface {
	ChangeBet(delta int) bool
	Deal(ctx context.Context) bool
	Hit(ctx context.Context) bool
	Stand(ctx context.Context) bool
	Reset(ctx context.Context) bool
	Snapshot() blackjack.Snapshot
}

// SnapshotMsg carries a published game snapshot into the program
type SnapshotMsg blackjack.Snapshot

type keyMap struct {
	BetUp       key.Binding
	BetDown     key.Binding
	BetUpMore   key.Binding
	BetDownMore key.Binding
	Deal        key.Binding
	Hit         key.Binding
	Stand       key.Binding
	NewHand     key.Binding
	Quit        key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.BetUp, k.BetDown, k.Deal, k.Hit, k.Stand, k.NewHand, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.BetUp, k.BetDown, k.BetUpMore, k.BetDownMore},
		{k.Deal, k.Hit, k.Stand, k.NewHand, k.Quit},
	}
}

var keys = keyMap{
	BetUp:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "bet +5")),
	BetDown:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "bet -5")),
	BetUpMore:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "bet +25")),
	BetDownMore: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "bet -25")),
	Deal:        key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d", "deal")),
	Hit:         key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hit")),
	Stand:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stand")),
	NewHand:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new hand")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// Model is the Bubble Tea model for one blackjack table
type Model struct {
	ctx    context.Context
	table  Table
	logger *log.Logger

	snap      blackjack.Snapshot
	history   []string
	lastRound string
	historyVP viewport.Model
	help      help.Model
	width     int
	height    int
	quitting  bool
}

// NewModel creates a model showing the table's current snapshot
func NewModel(ctx context.Context, table Table, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	return &Model{
		ctx:       ctx,
		table:     table,
		logger:    logger.WithPrefix("tui"),
		snap:      table.Snapshot(),
		historyVP: vp,
		help:      help.New(),
	}
}

// Observer returns a game observer that forwards snapshots to the program
func Observer(p *tea.Program) blackjack.Observer {
	return func(s blackjack.Snapshot) {
		p.Send(SnapshotMsg(s))
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.apply(blackjack.Snapshot(msg))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.BetUp):
			return m, m.intent(func() { m.table.ChangeBet(5) })
		case key.Matches(msg, keys.BetDown):
			return m, m.intent(func() { m.table.ChangeBet(-5) })
		case key.Matches(msg, keys.BetUpMore):
			return m, m.intent(func() { m.table.ChangeBet(25) })
		case key.Matches(msg, keys.BetDownMore):
			return m, m.intent(func() { m.table.ChangeBet(-25) })
		case key.Matches(msg, keys.Deal):
			return m, m.intent(func() { m.table.Deal(m.ctx) })
		case key.Matches(msg, keys.Hit):
			return m, m.intent(func() { m.table.Hit(m.ctx) })
		case key.Matches(msg, keys.Stand):
			return m, m.intent(func() { m.table.Stand(m.ctx) })
		case key.Matches(msg, keys.NewHand):
			return m, m.intent(func() { m.table.Reset(m.ctx) })
		}
	}

	var cmd tea.Cmd
	m.historyVP, cmd = m.historyVP.Update(msg)
	return m, cmd
}

// intent runs a game intent off the update loop. The resulting snapshot
// arrives through the observer.
func (m *Model) intent(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// apply takes a snapshot unless a newer one has already been shown
func (m *Model) apply(s blackjack.Snapshot) {
	if s.Version < m.snap.Version {
		m.logger.Debug("Dropping stale snapshot", "version", s.Version, "current", m.snap.Version)
		return
	}
	m.snap = s

	if s.State == blackjack.GameOver && s.RoundID != "" && s.RoundID != m.lastRound {
		m.lastRound = s.RoundID
		m.addHistory(fmt.Sprintf("%-12s bet %3d  paid %3d  you %2d  dealer %2d",
			s.Outcome, s.Bet, s.Payout, s.PlayerScore, s.DealerScore))
	}
}

func (m *Model) addHistory(entry string) {
	m.history = append(m.history, entry)
	m.historyVP.SetContent(strings.Join(m.history, "\n"))
	if m.historyVP.Height > 0 && m.historyVP.Width > 0 {
		m.historyVP.GotoBottom()
	}
}

// History returns the settled round lines, oldest first
func (m *Model) History() []string {
	return m.history
}

// Current returns the snapshot being shown
func (m *Model) Current() blackjack.Snapshot {
	return m.snap
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	width := max(m.width, 40)
	var b strings.Builder

	header := HeaderStyle.Render("♠ Blackjack") + "  " +
		WarningStyle.Render(fmt.Sprintf("Tokens: %d", m.snap.Tokens)) + "  " +
		SuccessStyle.Render(fmt.Sprintf("Bet: %d", m.snap.Bet))
	b.WriteString(header)
	b.WriteString("\n\n")

	b.WriteString(HandInfoStyle.Render("Dealer"))
	if len(m.snap.Dealer) > 0 {
		b.WriteString(fmt.Sprintf(" (%s)", m.dealerScore()))
	}
	b.WriteString("\n")
	b.WriteString(formatHand(m.snap.Dealer, m.snap.DealerHidden))
	b.WriteString("\n\n")

	b.WriteString(HandInfoStyle.Render("You"))
	if len(m.snap.Player) > 0 {
		b.WriteString(fmt.Sprintf(" (%d)", m.snap.PlayerScore))
	}
	b.WriteString("\n")
	b.WriteString(formatHand(m.snap.Player, false))
	b.WriteString("\n\n")

	b.WriteString(m.renderMessage())
	b.WriteString("\n\n")

	table := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(width - 2).
		Render(b.String())

	parts := []string{table}
	if len(m.history) > 0 {
		m.historyVP.Width = width - 2
		m.historyVP.Height = max(min(len(m.history), m.height-lipgloss.Height(table)-4), 1)
		history := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Width(width - 2).
			Render(m.historyVP.View())
		parts = append(parts, history)
	}
	parts = append(parts, InfoStyle.Render(fmt.Sprintf("Shoe: %d cards", m.snap.ShoeRemaining)), m.help.View(keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) dealerScore() string {
	if m.snap.DealerHidden {
		return fmt.Sprintf("%d + ?", m.snap.VisibleDealerScore())
	}
	return fmt.Sprintf("%d", m.snap.DealerScore)
}

func (m *Model) renderMessage() string {
	switch m.snap.Outcome {
	case blackjack.Blackjack, blackjack.PlayerWin, blackjack.DealerBust:
		return SuccessStyle.Render(m.snap.Message)
	case blackjack.PlayerBust, blackjack.DealerWin:
		return ErrorStyle.Render(m.snap.Message)
	}
	return MessageStyle.Render(m.snap.Message)
}

// formatHand formats cards with colors, masking the hidden dealer card
func formatHand(hand []cards.Card, hidden bool) string {
	if len(hand) == 0 {
		return InfoStyle.Render("--")
	}

	formatted := make([]string, 0, len(hand))
	for i, card := range hand {
		switch {
		case hidden && i == blackjack.HiddenDealerCard:
			formatted = append(formatted, HiddenCardStyle.Render("??"))
		case card.IsRed():
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		default:
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
