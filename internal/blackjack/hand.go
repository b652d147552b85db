package blackjack

import (
	"slices"
	"strings"

	"github.com/lox/blackjack/internal/cards"
)

// Hand is an immutable, append-only sequence of cards
type Hand struct {
	cards []cards.Card
}

// NewHand creates a hand holding the given cards
func NewHand(cs ...cards.Card) Hand {
	return Hand{cards: slices.Clone(cs)}
}

// With returns a new hand with c appended; h is left unchanged
func (h Hand) With(c cards.Card) Hand {
	return Hand{cards: append(slices.Clip(h.cards), c)}
}

// Cards returns a copy of the cards in deal order
func (h Hand) Cards() []cards.Card {
	return slices.Clone(h.cards)
}

// Len returns the number of cards in the hand
func (h Hand) Len() int {
	return len(h.cards)
}

// Score returns the best blackjack total for the hand
func (h Hand) Score() int {
	return Score(h.cards)
}

// IsNatural reports a two-card 21
func (h Hand) IsNatural() bool {
	return len(h.cards) == 2 && h.Score() == 21
}

// IsBust reports a total over 21
func (h Hand) IsBust() bool {
	return h.Score() > 21
}

// IsSoft reports whether an Ace is still counted as 11 in the score
func (h Hand) IsSoft() bool {
	hard := 0
	aces := 0
	for _, c := range h.cards {
		if c.IsAce() {
			hard++
			aces++
			continue
		}
		hard += c.NumericValue()
	}
	return aces > 0 && hard+10 <= 21
}

func (h Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Score computes a blackjack total: every Ace starts at 11 and is demoted to
// 1, one at a time, while the total is over 21. The result may exceed 21.
func Score(hand []cards.Card) int {
	total := 0
	aces := 0
	for _, c := range hand {
		total += c.NumericValue()
		if c.IsAce() {
			aces++
		}
	}

	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}
