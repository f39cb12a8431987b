// Package strategy holds the Momentum HOD entry and eligibility rules:
// stateless filters over price/volume plus the stateful EMA
// touch-and-bounce confirmation that gates entries.
package strategy

import "github.com/newthinker/hodback/internal/core"

// Params carries every tunable of the strategy. Zero value is not
// usable; start from DefaultParams.
type Params struct {
	// Scanning window for watchlist admission, venue-local.
	// The window is half-open: [ScanStart, ScanEnd).
	ScanStart core.Clock
	ScanEnd   core.Clock

	// FlushAt is the daily forced-liquidation time.
	FlushAt core.Clock

	RSIThreshold    float64
	StopLossPct     float64
	TakeProfitPct   float64
	HODProximityPct float64
	TrailingStopPct float64

	ScaleOutTarget   float64
	ScaleOutFraction float64

	PositionSizeDollars float64

	// Small-cap eligibility filters.
	MinPrice          float64
	MaxPrice          float64
	MaxFloat          int64
	MinRelativeVolume float64

	// Entry confirmation thresholds.
	MinEntryDayVolume   int64
	EntryVolumeSurge    float64
	MomentumVolumeRatio float64
	MinHistoryBars      int
}

// DefaultParams returns the optimized production parameter set.
func DefaultParams() Params {
	return Params{
		ScanStart: core.Clock{Hour: 10},
		ScanEnd:   core.Clock{Hour: 14},
		FlushAt:   core.Clock{Hour: 15, Minute: 55},

		RSIThreshold:    60,
		StopLossPct:     0.05,
		TakeProfitPct:   0.10,
		HODProximityPct: 0.10,
		TrailingStopPct: 0.05,

		ScaleOutTarget:   0.08,
		ScaleOutFraction: 0.67,

		PositionSizeDollars: 1000,

		MinPrice:          1.0,
		MaxPrice:          10.0,
		MaxFloat:          30_000_000,
		MinRelativeVolume: 2.0,

		MinEntryDayVolume:   5_000_000,
		EntryVolumeSurge:    1.5,
		MomentumVolumeRatio: 0.8,
		MinHistoryBars:      20,
	}
}
