package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/blackjack"
)

// RoundResult represents the outcome of a single blackjack round
type RoundResult struct {
	Table       int               // Table the round was played at
	Bet         int               // Tokens staked
	Payout      int               // Tokens returned, stake included
	Outcome     blackjack.Outcome // How the round settled
	PlayerCards int               // Cards in the player's final hand
	DealerCards int               // Cards in the dealer's final hand
}

// Net returns the tokens won or lost in the round
func (r RoundResult) Net() int {
	return r.Payout - r.Bet
}

// Statistics tracks blackjack simulation results
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Net tokens per round for median/percentile calculation

	Wagered  int // Total tokens staked
	Returned int // Total tokens paid back

	Outcomes   map[blackjack.Outcome]int
	Purchases  int // Token packs bought to keep tables funded
	Reshuffles int
}

// Mean returns the mean net tokens per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := float64(result.Net())
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)

	s.Wagered += result.Bet
	s.Returned += result.Payout

	if s.Outcomes == nil {
		s.Outcomes = make(map[blackjack.Outcome]int)
	}
	s.Outcomes[result.Outcome]++
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wagered += other.Wagered
	s.Returned += other.Returned
	s.Purchases += other.Purchases
	s.Reshuffles += other.Reshuffles

	if len(other.Outcomes) > 0 && s.Outcomes == nil {
		s.Outcomes = make(map[blackjack.Outcome]int)
	}
	for outcome, n := range other.Outcomes {
		s.Outcomes[outcome] += n
	}
}

// Wins returns rounds where the player got back more than the stake
func (s *Statistics) Wins() int {
	return s.Outcomes[blackjack.PlayerWin] + s.Outcomes[blackjack.DealerBust] + s.Outcomes[blackjack.Blackjack]
}

// Losses returns rounds where the stake was lost
func (s *Statistics) Losses() int {
	return s.Outcomes[blackjack.PlayerBust] + s.Outcomes[blackjack.DealerWin]
}

// ReturnToPlayer returns tokens paid back per token staked
func (s *Statistics) ReturnToPlayer() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return float64(s.Returned) / float64(s.Wagered)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that tokens returned minus tokens staked equals the net total
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(float64(s.Returned-s.Wagered)-s.SumNet) <= 1e-6
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: returned=%d wagered=%d net=%.2f",
			s.Returned, s.Wagered, s.SumNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	total := 0
	for outcome, n := range s.Outcomes {
		if outcome == blackjack.NoOutcome {
			return fmt.Errorf("%d rounds recorded without an outcome", n)
		}
		total += n
	}
	if total != s.Rounds {
		return fmt.Errorf("outcome total (%d) does not match rounds count (%d)", total, s.Rounds)
	}

	return nil
}
