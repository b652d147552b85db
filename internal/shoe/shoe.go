// Package shoe holds the multi-deck card supply used by the blackjack table.
//
// A Shoe is an immutable value: drawing returns the card together with a new
// Shoe, so a previously observed Shoe never changes underneath its holder.
// Manager owns the current Shoe and applies the reshuffle policy.
package shoe

import (
	"errors"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/blackjack/internal/cards"
)

// DeckSize is the number of cards in one standard deck
const DeckSize = 52

// ErrEmptyShoe is returned when drawing from a shoe with no cards left
var ErrEmptyShoe = errors.New("shoe is empty")

// Shoe is an ordered card sequence whose top is the last element
type Shoe struct {
	cards    []cards.Card
	capacity int
}

// New builds a shoe of decks full decks, shuffles it and cuts it
func New(rng *rand.Rand, decks int) Shoe {
	if decks < 1 {
		decks = 1
	}

	built := make([]cards.Card, 0, decks*DeckSize)
	for range decks {
		for _, suit := range cards.Suits {
			for rank := cards.Ace; rank <= cards.King; rank++ {
				built = append(built, cards.NewCard(suit, rank))
			}
		}
	}

	return Shoe{cards: cut(rng, shuffle(rng, built)), capacity: len(built)}
}

// FromCards returns a shoe dealing the given cards in order, first card first.
// The capacity equals the number of cards supplied.
func FromCards(deal ...cards.Card) Shoe {
	stacked := slices.Clone(deal)
	slices.Reverse(stacked)
	return Shoe{cards: stacked, capacity: len(stacked)}
}

// WithCapacity returns the same cards measured against a capacity of n
func (s Shoe) WithCapacity(n int) Shoe {
	return Shoe{cards: s.cards, capacity: n}
}

// shuffle applies Fisher-Yates to a copy of in
func shuffle(rng *rand.Rand, in []cards.Card) []cards.Card {
	out := slices.Clone(in)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// cut picks a point in [n/4, 3n/4) and returns tail-from-cut followed by head
func cut(rng *rand.Rand, in []cards.Card) []cards.Card {
	n := len(in)
	if n < 4 {
		return in
	}
	point := n/4 + rng.IntN(n/2)

	out := make([]cards.Card, 0, n)
	out = append(out, in[point:]...)
	return append(out, in[:point]...)
}

// Draw removes the top card, returning it and the remaining shoe
func (s Shoe) Draw() (cards.Card, Shoe, error) {
	n := len(s.cards)
	if n == 0 {
		return cards.Card{}, s, ErrEmptyShoe
	}
	return s.cards[n-1], Shoe{cards: s.cards[: n-1 : n-1], capacity: s.capacity}, nil
}

// Peek returns the top card without drawing it
func (s Shoe) Peek() (cards.Card, bool) {
	if len(s.cards) == 0 {
		return cards.Card{}, false
	}
	return s.cards[len(s.cards)-1], true
}

// Remaining returns the number of cards left in the shoe
func (s Shoe) Remaining() int {
	return len(s.cards)
}

// Capacity returns the number of cards the shoe was built with
func (s Shoe) Capacity() int {
	return s.capacity
}

// IsEmpty returns true if the shoe has no cards left
func (s Shoe) IsEmpty() bool {
	return len(s.cards) == 0
}

// BelowThreshold reports whether fewer than fraction × capacity cards remain
func (s Shoe) BelowThreshold(fraction float64) bool {
	return float64(len(s.cards)) < fraction*float64(s.capacity)
}

// Cards returns a copy of the remaining cards, bottom first
func (s Shoe) Cards() []cards.Card {
	return slices.Clone(s.cards)
}
