package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack/internal/cards"
)

func TestStateAccepts(t *testing.T) {
	t.Parallel()
	intents := []Intent{ChangeBetIntent, DealIntent, HitIntent, StandIntent, ResetIntent}
	want := map[State][]Intent{
		Betting:    {ChangeBetIntent, DealIntent, ResetIntent},
		Playing:    {HitIntent, StandIntent},
		DealerTurn: nil,
		GameOver:   {ResetIntent},
	}

	for state, accepted := range want {
		for _, intent := range intents {
			assert.Equal(t, contains(accepted, intent), state.Accepts(intent), "%s accepts %s", state, intent)
		}
	}
}

func TestStateTransitions(t *testing.T) {
	t.Parallel()
	assert.True(t, Betting.CanTransition(Playing))
	assert.True(t, Playing.CanTransition(DealerTurn))
	assert.True(t, Playing.CanTransition(GameOver))
	assert.True(t, DealerTurn.CanTransition(GameOver))
	assert.True(t, GameOver.CanTransition(Betting))

	assert.False(t, Betting.CanTransition(GameOver))
	assert.False(t, DealerTurn.CanTransition(Playing))
	assert.False(t, GameOver.CanTransition(Playing))
}

func contains(intents []Intent, want Intent) bool {
	for _, i := range intents {
		if i == want {
			return true
		}
	}
	return false
}

func TestVisibleDealerScore(t *testing.T) {
	t.Parallel()
	s := Snapshot{Dealer: cards.MustParseCards("9dAc"), DealerScore: 20, DealerHidden: true}
	assert.Equal(t, 9, s.VisibleDealerScore())

	s.DealerHidden = false
	assert.Equal(t, 20, s.VisibleDealerScore())
}
