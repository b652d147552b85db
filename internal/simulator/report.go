package simulator

import (
	"encoding/json"
	"io"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Report is the machine-readable form of a simulation result
type Report struct {
	Rounds         int            `json:"rounds"`
	Wagered        int            `json:"wagered"`
	Returned       int            `json:"returned"`
	ReturnToPlayer float64        `json:"return_to_player"`
	Mean           float64        `json:"mean"`
	StdDev         float64        `json:"std_dev"`
	CI95           [2]float64     `json:"ci95"`
	Outcomes       map[string]int `json:"outcomes"`
	Reshuffles     int            `json:"reshuffles"`
	Purchases      int            `json:"purchases"`
}

// NewReport summarizes stats
func NewReport(stats *statistics.Statistics) Report {
	low, high := stats.ConfidenceInterval95()
	outcomes := make(map[string]int, len(stats.Outcomes))
	for outcome, n := range stats.Outcomes {
		outcomes[outcome.String()] = n
	}
	return Report{
		Rounds:         stats.Rounds,
		Wagered:        stats.Wagered,
		Returned:       stats.Returned,
		ReturnToPlayer: stats.ReturnToPlayer(),
		Mean:           stats.Mean(),
		StdDev:         stats.StdDev(),
		CI95:           [2]float64{low, high},
		Outcomes:       outcomes,
		Reshuffles:     stats.Reshuffles,
		Purchases:      stats.Purchases,
	}
}

// WriteReport writes stats as indented JSON, replacing path atomically
func WriteReport(path string, stats *statistics.Statistics) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewReport(stats))
	})
}
