package blackjack

import "github.com/lox/blackjack/internal/cards"

// HiddenDealerCard is the index of the dealer card dealt face down
const HiddenDealerCard = 1

// Snapshot is the view of a game handed to the presentation layer after
// every mutation. Version increases with every published snapshot so a
// renderer can drop one that arrives out of order.
type Snapshot struct {
	RoundID       string
	Version       uint64
	State         State
	Player        []cards.Card
	Dealer        []cards.Card
	PlayerScore   int
	DealerScore   int
	DealerHidden  bool
	Dealing       bool
	Message       string
	Bet           int
	Tokens        int
	Outcome       Outcome
	Payout        int
	ShoeRemaining int
}

// Observer receives snapshots. It is called without the game lock held and
// may call back into the game.
type Observer func(Snapshot)

// VisibleDealerScore returns the dealer score a player can see, leaving out
// the hidden card while it is face down
func (s Snapshot) VisibleDealerScore() int {
	if !s.DealerHidden || len(s.Dealer) <= HiddenDealerCard {
		return s.DealerScore
	}
	visible := make([]cards.Card, 0, len(s.Dealer)-1)
	visible = append(visible, s.Dealer[:HiddenDealerCard]...)
	visible = append(visible, s.Dealer[HiddenDealerCard+1:]...)
	return Score(visible)
}
