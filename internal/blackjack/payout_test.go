package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettleAndPayout(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		player  string
		dealer  string
		bet     int
		outcome Outcome
		payout  int
	}{
		{"player wins 20 to 19", "Ts9hAc", "Td9c", 10, PlayerWin, 20},
		{"player wins two card 20", "TsTh", "Td9c", 10, PlayerWin, 20},
		{"player busts", "TsQh2c", "Td9c", 10, PlayerBust, 0},
		{"player bust beats nothing even if dealer busts", "TsQh2c", "Td6cKs", 10, PlayerBust, 0},
		{"blackjack pays 3:2", "AsKh", "Td Qc", 10, Blackjack, 25},
		{"blackjack rounds down", "AsKh", "Td7c", 15, Blackjack, 37},
		{"push", "TsTh", "TdQc", 10, Push, 10},
		{"dealer busts", "Ts9h", "Td6cKs", 10, DealerBust, 20},
		{"dealer wins", "Ts7h", "Td9c", 10, DealerWin, 0},
		{"both naturals push", "AsKh", "AdQc", 10, Push, 10},
		{"three card 21 against dealer natural", "As5h5d", "AdQc", 10, Push, 10},
		{"natural beats three card 21", "AsKh", "7d7c7s", 10, Blackjack, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Settle(hand(tt.player), hand(tt.dealer))
			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, tt.payout, Payout(outcome, tt.bet))
		})
	}
}

func TestPayoutTable(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 20, Payout(PlayerWin, 10))
	assert.Equal(t, 0, Payout(PlayerBust, 10))
	assert.Equal(t, 25, Payout(Blackjack, 10))
	assert.Equal(t, 10, Payout(Push, 10))
	assert.Equal(t, 20, Payout(DealerBust, 10))
	assert.Equal(t, 0, Payout(DealerWin, 10))
	assert.Equal(t, 0, Payout(NoOutcome, 10))
	assert.Equal(t, 250, Payout(Blackjack, 100))
}

func TestOutcomeMessages(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Blackjack! You win!", Blackjack.Message())
	assert.Equal(t, "It's a push!", Push.Message())
	assert.Equal(t, "DEALER_BUST", DealerBust.String())
}
