package engine

import "github.com/newthinker/hodback/internal/core"

// Stats holds performance statistics replayed from a ledger.
type Stats struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64 // Percentage of profitable records
	TotalPnL      float64
	AvgPnL        float64
	MaxDrawdown   float64 // Largest peak-to-trough equity decline, in dollars
}

// CalculateStats computes summary statistics from a trade ledger. The
// ledger is the sole input, so recomputing from the same records always
// yields the same stats.
func CalculateStats(trades []core.Trade) Stats {
	if len(trades) == 0 {
		return Stats{}
	}

	var s Stats
	s.TotalTrades = len(trades)

	var equity, peak, maxDD float64
	for _, t := range trades {
		s.TotalPnL += t.PnL
		if t.PnL > 0 {
			s.WinningTrades++
		} else if t.PnL < 0 {
			s.LosingTrades++
		}

		equity += t.PnL
		if equity > peak {
			peak = equity
		}
		if dd := peak - equity; dd > maxDD {
			maxDD = dd
		}
	}

	s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
	s.AvgPnL = s.TotalPnL / float64(s.TotalTrades)
	s.MaxDrawdown = maxDD
	return s
}
