package core

import (
	"fmt"
	"time"
)

// Bar represents a single minute-resolution OHLCV observation
type Bar struct {
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
	Time   time.Time
}

// IsValid checks if the bar has required fields
func (b Bar) IsValid() bool {
	return b.Symbol != "" && b.High > 0 && !b.Time.IsZero()
}

// Red reports whether the bar closed below its open
func (b Bar) Red() bool {
	return b.Close < b.Open
}

// TypicalPrice returns (high + low + close) / 3
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// DailyBar represents one day-resolution OHLCV observation, used for
// day-level eligibility screening
type DailyBar struct {
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
	Date   Date
}

// SymbolInfo holds static per-symbol metadata from the screener.
// FloatShares <= 0 means the float is unknown.
type SymbolInfo struct {
	Symbol      string
	Price       float64
	FloatShares int64
}

// Date is a calendar day used as the composite key for day-scoped
// aggregates (HOD, cumulative volume, daily eligibility)
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar day from a timestamp in its own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// After reports whether d is a later calendar day than o
func (d Date) After(o Date) bool {
	if d.Year != o.Year {
		return d.Year > o.Year
	}
	if d.Month != o.Month {
		return d.Month > o.Month
	}
	return d.Day > o.Day
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ExitReason enumerates why shares were sold
type ExitReason string

const (
	ExitStopLoss     ExitReason = "STOP_LOSS"
	ExitTrailingStop ExitReason = "TRAILING_STOP"
	ExitTakeProfit   ExitReason = "TAKE_PROFIT"
	ExitMarketClose  ExitReason = "MARKET_CLOSE"
	ExitEndOfData    ExitReason = "END_OF_DATA"
)

// ScaleOutReason builds the exit reason for a partial exit at the given
// profit target, e.g. 0.08 -> "SCALE_OUT_8%"
func ScaleOutReason(target float64) ExitReason {
	return ExitReason(fmt.Sprintf("SCALE_OUT_%g%%", target*100))
}

// Trade is one immutable ledger record: a full or partial exit
type Trade struct {
	Symbol     string
	EntryTime  time.Time
	EntryPrice float64
	ExitTime   time.Time
	ExitPrice  float64
	Shares     int
	PnL        float64
	PnLPct     float64
	Reason     ExitReason
}

// IsWin returns true if the trade was profitable
func (t Trade) IsWin() bool {
	return t.PnL > 0
}
