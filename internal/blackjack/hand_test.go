package blackjack

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/cards"
	"github.com/lox/blackjack/internal/randutil"
)

func hand(s string) Hand {
	return NewHand(cards.MustParseCards(s)...)
}

func TestScore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cards string
		want  int
		soft  bool
	}{
		{"AsKh", 21, true},
		{"AsAd9c", 21, true},
		{"AsAd", 12, true},
		{"AsAdAc8h", 21, true},
		{"AsAdAcAh", 14, true},
		{"As6h", 17, true},
		{"As6hTc", 17, false},
		{"KsQh5c", 25, false},
		{"Ts9h", 19, false},
		{"2s3h", 5, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			h := hand(tt.cards)
			assert.Equal(t, tt.want, h.Score())
			assert.Equal(t, tt.want, Score(h.Cards()))
			assert.Equal(t, tt.soft, h.IsSoft())
			assert.Equal(t, tt.want > 21, h.IsBust())
		})
	}
}

func TestScoreIsOrderInvariant(t *testing.T) {
	t.Parallel()
	rng := randutil.New(11)
	for _, s := range []string{"AsAd9c", "As5h5dAc", "KsQhAc", "2s3h4d5cAh6s", "AcAdAhAs7c"} {
		base := cards.MustParseCards(s)
		want := Score(base)
		for range 20 {
			perm := slices.Clone(base)
			rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
			require.Equal(t, want, Score(perm), "permutation %v of %s", perm, s)
		}
	}
}

func TestHandWithIsImmutable(t *testing.T) {
	t.Parallel()
	base := hand("Ts")
	a := base.With(cards.NewCard(cards.Hearts, cards.Nine))
	b := base.With(cards.NewCard(cards.Hearts, cards.Two))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 19, a.Score())
	assert.Equal(t, 12, b.Score())
	assert.Equal(t, "T♠ 9♥", a.String())
}

func TestIsNatural(t *testing.T) {
	t.Parallel()
	assert.True(t, hand("AsKh").IsNatural())
	assert.True(t, hand("TdAc").IsNatural())
	assert.False(t, hand("As5h5d").IsNatural(), "three-card 21 is not a natural")
	assert.False(t, hand("AsAd").IsNatural())
}
