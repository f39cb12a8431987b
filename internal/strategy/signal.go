package strategy

import (
	"math"

	"github.com/newthinker/hodback/internal/indicator"
)

// TouchTracker records which symbols have completed an EMA9
// touch-and-bounce confirmation. It is owned by the backtest driver and
// threaded through the signal checks; entries clear it, nothing else
// does.
type TouchTracker struct {
	touched       map[string]bool
	confirmations map[string]int
}

// NewTouchTracker creates an empty tracker.
func NewTouchTracker() *TouchTracker {
	return &TouchTracker{
		touched:       make(map[string]bool),
		confirmations: make(map[string]int),
	}
}

// Touched reports whether the symbol has a recorded confirmation.
func (t *TouchTracker) Touched(symbol string) bool {
	return t.touched[symbol]
}

// Clear drops the symbol's markers. Called on position entry.
func (t *TouchTracker) Clear(symbol string) {
	delete(t.touched, symbol)
	delete(t.confirmations, symbol)
}

// HasMomentum reports whether the bar at idx shows tradeable momentum:
// enough history, eligibility pass, close above EMA9, MACD above its
// signal, and volume at least MomentumVolumeRatio of the rolling
// average. A NaN rolling average (volume warmup) fails the volume leg.
func (p Params) HasMomentum(f *indicator.Frame, idx int, floatShares int64) bool {
	if idx < p.MinHistoryBars {
		return false
	}
	bar := f.Bars[idx]
	if !p.MeetsCriteria(bar.Close, f.RelativeVolume[idx], floatShares) {
		return false
	}
	return bar.Close > f.EMA9[idx] &&
		f.MACD[idx] > f.MACDSignal[idx] &&
		float64(bar.Volume) >= f.AvgVolume[idx]*p.MomentumVolumeRatio
}

// IsNearHOD reports whether the close at idx is within HODProximityPct
// of the day's running high.
func (p Params) IsNearHOD(f *indicator.Frame, idx int) bool {
	return f.DistFromHOD[idx] <= p.HODProximityPct
}

// EMATouchAndBounce checks for a touch of the 9 EMA two bars back
// (low <= EMA9 <= high, or a close at or below it) followed by two
// consecutive closes above the EMA. On first satisfaction it sets the
// symbol's sticky marker in the tracker; the marker is only ever
// cleared externally on entry.
func (p Params) EMATouchAndBounce(f *indicator.Frame, idx int, symbol string, tracker *TouchTracker) bool {
	if idx < 3 {
		return false
	}
	prev2 := f.Bars[idx-2]
	ema2 := f.EMA9[idx-2]
	touched := (prev2.Low <= ema2 && ema2 <= prev2.High) || prev2.Close <= ema2

	prevAbove := f.Bars[idx-1].Close > f.EMA9[idx-1]
	currAbove := f.Bars[idx].Close > f.EMA9[idx]

	if touched && prevAbove && currAbove {
		if !tracker.touched[symbol] {
			tracker.touched[symbol] = true
			tracker.confirmations[symbol] = 2
		}
		return true
	}
	return false
}

// CheckEntry evaluates the full entry gate for a watched symbol at idx.
// Every clause must hold: touch-and-bounce confirmation, cumulative day
// volume at the minimum, a volume surge on this bar, RSI below the
// threshold (NaN fails), MACD above its signal, and no red candle on
// at-or-above-average volume. Re-evaluated every bar while watched.
func (p Params) CheckEntry(f *indicator.Frame, idx int, symbol string, tracker *TouchTracker) bool {
	if idx < p.MinHistoryBars {
		return false
	}

	if !p.EMATouchAndBounce(f, idx, symbol, tracker) {
		return false
	}

	if f.CumulativeVolume[idx] < p.MinEntryDayVolume {
		return false
	}

	bar := f.Bars[idx]
	if !(float64(bar.Volume) >= f.AvgVolume[idx]*p.EntryVolumeSurge) {
		return false
	}

	rsi := f.RSI[idx]
	if math.IsNaN(rsi) || rsi >= p.RSIThreshold {
		return false
	}

	if f.MACD[idx] <= f.MACDSignal[idx] {
		return false
	}

	if f.IsRed[idx] && float64(bar.Volume) >= f.AvgVolume[idx] {
		return false
	}

	return true
}
