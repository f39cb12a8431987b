package indicator

import (
	"math"

	"github.com/newthinker/hodback/internal/core"
)

// RSI calculates the Relative Strength Index with Wilder smoothing.
// Returns a slice the same length as prices. The seed average gain/loss
// comes from the first period+1 deltas; entries before the seed settles
// carry the seed value. When the average loss is zero, rs is treated as
// zero in both the seed and the recursive update, so an all-gain stretch
// reads as RSI 0 rather than 100. Entry logic treats low RSI as
// "not overbought", so the convention is conservative.
func RSI(prices []float64, period int) []float64 {
	rsi := make([]float64, len(prices))
	if len(prices) == 0 {
		return rsi
	}

	deltas := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		deltas[i-1] = prices[i] - prices[i-1]
	}

	seedLen := period + 1
	if seedLen > len(deltas) {
		seedLen = len(deltas)
	}
	var up, down float64
	for _, d := range deltas[:seedLen] {
		if d >= 0 {
			up += d
		} else {
			down -= d
		}
	}
	up /= float64(period)
	down /= float64(period)

	rs := 0.0
	if down != 0 {
		rs = up / down
	}
	seed := 100 - 100/(1+rs)
	for i := 0; i < len(prices) && i < period; i++ {
		rsi[i] = seed
	}

	for i := period; i < len(prices); i++ {
		delta := deltas[i-1]
		var upval, downval float64
		if delta > 0 {
			upval = delta
		} else {
			downval = -delta
		}
		up = (up*float64(period-1) + upval) / float64(period)
		down = (down*float64(period-1) + downval) / float64(period)
		rs = 0
		if down != 0 {
			rs = up / down
		}
		rsi[i] = 100 - 100/(1+rs)
	}
	return rsi
}

// EMA calculates an Exponential Moving Average seeded with the first
// price. Returns a slice the same length as prices.
func EMA(prices []float64, period int) []float64 {
	ema := make([]float64, len(prices))
	if len(prices) == 0 {
		return ema
	}
	multiplier := 2.0 / float64(period+1)
	ema[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		ema[i] = prices[i]*multiplier + ema[i-1]*(1-multiplier)
	}
	return ema
}

// MACD returns the MACD line (EMA12 - EMA26) and its signal line (EMA9
// of the MACD line).
func MACD(prices []float64) (macd, signal []float64) {
	ema12 := EMA(prices, 12)
	ema26 := EMA(prices, 26)
	macd = make([]float64, len(prices))
	for i := range prices {
		macd[i] = ema12[i] - ema26[i]
	}
	signal = EMA(macd, 9)
	return macd, signal
}

// Frame holds per-timestamp derived values for one symbol. Columns are
// parallel to Bars; it is computed once and read-only afterward.
type Frame struct {
	Bars []core.Bar

	RSI        []float64
	EMA9       []float64
	EMA50      []float64
	EMA100     []float64
	MACD       []float64
	MACDSignal []float64

	// VWAP accumulates from the start of the loaded series, not per
	// day. Known limitation kept for parity with the strategy's
	// historical results; HOD and CumulativeVolume do reset daily.
	VWAP []float64

	// AvgVolume is the 20-bar rolling mean volume; NaN until 20 bars
	// have been seen.
	AvgVolume []float64

	HOD              []float64
	DistFromHOD      []float64
	CumulativeVolume []int64
	RelativeVolume   []float64
	IsRed            []bool
}

// Len returns the number of rows in the frame.
func (f *Frame) Len() int {
	return len(f.Bars)
}

const avgVolumeWindow = 20

// Compute derives the full indicator frame from a time-ascending bar
// sequence. Bars must already carry venue-local timestamps so that the
// calendar-day partitions (HOD, cumulative volume) and the time-of-day
// volume baseline line up with the trading session. Pure: the same
// input always yields the same frame, and the input is not mutated.
func Compute(bars []core.Bar) *Frame {
	n := len(bars)
	f := &Frame{
		Bars:             bars,
		HOD:              make([]float64, n),
		DistFromHOD:      make([]float64, n),
		CumulativeVolume: make([]int64, n),
		RelativeVolume:   make([]float64, n),
		IsRed:            make([]bool, n),
		AvgVolume:        make([]float64, n),
		VWAP:             make([]float64, n),
	}
	if n == 0 {
		f.RSI = []float64{}
		f.EMA9 = []float64{}
		f.EMA50 = []float64{}
		f.EMA100 = []float64{}
		f.MACD = []float64{}
		f.MACDSignal = []float64{}
		return f
	}

	closes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
	}
	f.RSI = RSI(closes, 14)
	f.EMA9 = EMA(closes, 9)
	f.EMA50 = EMA(closes, 50)
	f.EMA100 = EMA(closes, 100)
	f.MACD, f.MACDSignal = MACD(closes)

	// Running VWAP and rolling average volume.
	var cumPV, cumVol float64
	var windowSum int64
	for i, b := range bars {
		cumPV += float64(b.Volume) * b.TypicalPrice()
		cumVol += float64(b.Volume)
		if cumVol > 0 {
			f.VWAP[i] = cumPV / cumVol
		}

		windowSum += b.Volume
		if i >= avgVolumeWindow {
			windowSum -= bars[i-avgVolumeWindow].Volume
		}
		if i >= avgVolumeWindow-1 {
			f.AvgVolume[i] = float64(windowSum) / avgVolumeWindow
		} else {
			f.AvgVolume[i] = math.NaN()
		}

		f.IsRed[i] = b.Red()
	}

	// Day-scoped aggregates plus the time-of-day volume baseline. The
	// baseline is an expanding mean per minute-of-day across all days
	// seen so far, including the current row.
	type meanState struct {
		sum   float64
		count int64
	}
	baseline := make(map[int]*meanState)

	var day core.Date
	var hod float64
	var dayVol int64
	var barsElapsed int64

	for i, b := range bars {
		d := core.DateOf(b.Time)
		if i == 0 || d != day {
			day = d
			hod = 0
			dayVol = 0
			barsElapsed = 0
		}
		if b.High > hod {
			hod = b.High
		}
		dayVol += b.Volume
		barsElapsed++

		f.HOD[i] = hod
		if hod > 0 {
			f.DistFromHOD[i] = (hod - b.Close) / hod
		}
		f.CumulativeVolume[i] = dayVol

		tod := b.Time.Hour()*3600 + b.Time.Minute()*60 + b.Time.Second()
		st := baseline[tod]
		if st == nil {
			st = &meanState{}
			baseline[tod] = st
		}
		st.sum += float64(b.Volume)
		st.count++

		expected := st.sum / float64(st.count) * float64(barsElapsed)
		if expected == 0 {
			expected = 1
		}
		f.RelativeVolume[i] = float64(dayVol) / expected
	}

	return f
}
