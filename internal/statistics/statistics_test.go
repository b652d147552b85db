package statistics

import (
	"math"
	"testing"

	"github.com/lox/blackjack/internal/blackjack"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.ReturnToPlayer() != 0 {
		t.Errorf("Expected RTP of 0 for empty stats, got %f", stats.ReturnToPlayer())
	}
	if stats.Wins() != 0 || stats.Losses() != 0 {
		t.Errorf("Expected no wins or losses, got %d/%d", stats.Wins(), stats.Losses())
	}
	if err := stats.Validate(); err == nil {
		t.Error("Expected empty stats to fail validation")
	}
}

func TestStatistics_MultipleRounds(t *testing.T) {
	stats := &Statistics{}

	results := []RoundResult{
		{Bet: 10, Payout: 20, Outcome: blackjack.PlayerWin},
		{Bet: 10, Payout: 0, Outcome: blackjack.PlayerBust},
		{Bet: 10, Payout: 25, Outcome: blackjack.Blackjack},
		{Bet: 10, Payout: 10, Outcome: blackjack.Push},
		{Bet: 20, Payout: 0, Outcome: blackjack.DealerWin},
	}
	for _, result := range results {
		stats.Add(result)
	}

	// nets: 10, -10, 15, 0, -20
	expectedMean := (10.0 - 10.0 + 15.0 + 0.0 - 20.0) / 5.0
	if math.Abs(stats.Mean()-expectedMean) > 1e-9 {
		t.Errorf("Expected mean of %f, got %f", expectedMean, stats.Mean())
	}
	if stats.Rounds != 5 {
		t.Errorf("Expected 5 rounds, got %d", stats.Rounds)
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0, got %f", stats.Median())
	}
	if stats.Wagered != 60 || stats.Returned != 55 {
		t.Errorf("Expected 60 wagered and 55 returned, got %d and %d", stats.Wagered, stats.Returned)
	}
	if stats.Wins() != 2 {
		t.Errorf("Expected 2 wins, got %d", stats.Wins())
	}
	if stats.Losses() != 2 {
		t.Errorf("Expected 2 losses, got %d", stats.Losses())
	}
	if math.Abs(stats.ReturnToPlayer()-55.0/60.0) > 1e-9 {
		t.Errorf("Expected RTP of %f, got %f", 55.0/60.0, stats.ReturnToPlayer())
	}
	if !stats.IsLedgerBalanced() {
		t.Error("Expected ledger to be balanced")
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Expected valid stats, got %v", err)
	}
}

func TestStatistics_Variance(t *testing.T) {
	stats := &Statistics{}
	for _, payout := range []int{0, 20, 0, 20} {
		stats.Add(RoundResult{Bet: 10, Payout: payout, Outcome: blackjack.PlayerWin})
	}

	// nets are -10, 10, -10, 10: mean 0, sample variance 400/3
	if math.Abs(stats.Variance()-400.0/3.0) > 1e-9 {
		t.Errorf("Expected variance of %f, got %f", 400.0/3.0, stats.Variance())
	}
	low, high := stats.ConfidenceInterval95()
	if low >= 0 || high <= 0 {
		t.Errorf("Expected interval around 0, got [%f, %f]", low, high)
	}
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := &Statistics{}
	for i := 1; i <= 5; i++ {
		stats.Add(RoundResult{Bet: 10, Payout: 10 + i, Outcome: blackjack.PlayerWin})
	}

	tests := []struct {
		percentile float64
		expected   float64
	}{
		{0.0, 1.0},
		{0.25, 2.0},
		{0.5, 3.0},
		{0.75, 4.0},
		{1.0, 5.0},
	}

	for _, tt := range tests {
		if got := stats.Percentile(tt.percentile); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Percentile(%.2f): expected %f, got %f", tt.percentile, tt.expected, got)
		}
	}
}

func TestStatistics_Merge(t *testing.T) {
	a := &Statistics{Reshuffles: 1}
	a.Add(RoundResult{Bet: 10, Payout: 20, Outcome: blackjack.DealerBust})
	b := &Statistics{Reshuffles: 2, Purchases: 1}
	b.Add(RoundResult{Bet: 10, Payout: 0, Outcome: blackjack.DealerWin})
	b.Add(RoundResult{Bet: 10, Payout: 10, Outcome: blackjack.Push})

	total := &Statistics{}
	total.Merge(a)
	total.Merge(b)

	if total.Rounds != 3 {
		t.Errorf("Expected 3 rounds, got %d", total.Rounds)
	}
	if total.Reshuffles != 3 || total.Purchases != 1 {
		t.Errorf("Expected 3 reshuffles and 1 purchase, got %d and %d", total.Reshuffles, total.Purchases)
	}
	if total.Outcomes[blackjack.DealerBust] != 1 || total.Outcomes[blackjack.Push] != 1 {
		t.Errorf("Unexpected outcome counts: %v", total.Outcomes)
	}
	if err := total.Validate(); err != nil {
		t.Errorf("Expected merged stats to validate, got %v", err)
	}
}

func TestStatistics_ValidateCatchesMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Bet: 10, Payout: 20, Outcome: blackjack.PlayerWin})
	stats.Returned = 0

	if err := stats.Validate(); err == nil {
		t.Error("Expected ledger mismatch to fail validation")
	}

	stats = &Statistics{}
	stats.Add(RoundResult{Bet: 10, Payout: 0})
	if err := stats.Validate(); err == nil {
		t.Error("Expected a round without an outcome to fail validation")
	}
}
