package engine

import (
	"time"

	"github.com/newthinker/hodback/internal/core"
	"github.com/newthinker/hodback/internal/strategy"
)

// Position is the open-trade state for one symbol. Exactly one exists
// per symbol at a time; it is mutated bar by bar while held and removed
// once RemainingShares reaches zero.
type Position struct {
	Symbol     string
	EntryPrice float64
	EntryTime  time.Time

	StopLoss      float64
	TakeProfit    float64
	ScaleOutPrice float64

	Shares          int
	RemainingShares int

	// HighestPrice is the high-water mark since entry, the reference
	// for the trailing stop once it activates.
	HighestPrice       float64
	ScaledOut          bool
	TrailingStopActive bool
}

// newPosition opens a position at the bar's close with fixed-dollar
// sizing. Stop, target and scale-out levels are struck off the entry.
func newPosition(symbol string, entryPrice float64, entryTime time.Time, p strategy.Params) *Position {
	shares := int(p.PositionSizeDollars / entryPrice)
	return &Position{
		Symbol:          symbol,
		EntryPrice:      entryPrice,
		EntryTime:       entryTime,
		StopLoss:        entryPrice * (1 - p.StopLossPct),
		TakeProfit:      entryPrice * (1 + p.TakeProfitPct),
		ScaleOutPrice:   entryPrice * (1 + p.ScaleOutTarget),
		Shares:          shares,
		RemainingShares: shares,
		HighestPrice:    entryPrice,
	}
}

// stopReference returns the active protective level: the ratcheting
// trailing stop when activated, otherwise the fixed stop loss.
func (pos *Position) stopReference(trailingStopPct float64) float64 {
	if pos.TrailingStopActive {
		return pos.HighestPrice * (1 - trailingStopPct)
	}
	return pos.StopLoss
}

// stopReason names the exit taken at the current stop reference.
func (pos *Position) stopReason() core.ExitReason {
	if pos.TrailingStopActive {
		return core.ExitTrailingStop
	}
	return core.ExitStopLoss
}
