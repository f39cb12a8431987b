// Package engine is the Momentum HOD backtest core: a single-pass,
// deterministic state machine over the union of all symbols' minute
// bars. It owns the watchlist, the open-position set and the trade
// ledger, and applies the entry/exit transitions in a fixed per-bar
// order. The engine performs no I/O; bars come in, a ledger comes out.
package engine

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/hodback/internal/core"
	"github.com/newthinker/hodback/internal/indicator"
	"github.com/newthinker/hodback/internal/metrics"
	"github.com/newthinker/hodback/internal/strategy"
)

// Input is everything the engine consumes. Bars must be time-ascending
// with unique timestamps per symbol. Info and Daily are optional;
// missing float data passes the float filter, missing daily data fails
// the day-level gate.
type Input struct {
	Bars  map[string][]core.Bar
	Info  map[string]core.SymbolInfo
	Daily strategy.DailyCriteria
}

// Engine runs the Momentum HOD simulation. Not safe for concurrent
// use; create one per run.
type Engine struct {
	params  strategy.Params
	loc     *time.Location
	log     *zap.Logger
	metrics *metrics.Registry

	watchlist map[string]time.Time
	positions map[string]*Position
	tracker   *strategy.TouchTracker
	trades    []core.Trade
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the audit logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics attaches a metrics registry. Nil is allowed.
func WithMetrics(m *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLocation overrides the trading-venue time zone used for all
// time-of-day and calendar-day decisions. Defaults to America/New_York.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// New creates an Engine with the given strategy parameters.
func New(params strategy.Params, opts ...Option) *Engine {
	e := &Engine{
		params:    params,
		log:       zap.NewNop(),
		watchlist: make(map[string]time.Time),
		positions: make(map[string]*Position),
		tracker:   strategy.NewTouchTracker(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.loc == nil {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			loc = time.FixedZone("EST", -5*3600)
		}
		e.loc = loc
	}
	return e
}

// symbolFrame pairs a symbol's indicator frame with a timestamp index
// for O(1) "does this symbol have a bar at t" lookups.
type symbolFrame struct {
	symbol string
	frame  *indicator.Frame
	index  map[int64]int // UnixNano -> row
	float  int64
}

// Run executes the backtest over all loaded symbols and returns the
// trade ledger. An input with no usable bars yields an empty ledger,
// never an error: inside the simulation every degenerate condition is
// "no signal" or "no trade".
func (e *Engine) Run(input Input) []core.Trade {
	frames := e.prepare(input)
	if len(frames) == 0 {
		e.log.Warn("no usable bar data, ledger empty")
		return nil
	}

	timestamps := unionTimestamps(frames)
	lastDay := core.DateOf(timestamps[len(timestamps)-1].In(e.loc))

	// Stable per-timestamp symbol order keeps map-iteration
	// nondeterminism out of the ledger.
	symbols := make([]string, 0, len(frames))
	for sym := range frames {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, ts := range timestamps {
		local := ts.In(e.loc)
		clock := core.ClockOf(local)
		day := core.DateOf(local)

		// 1. Market-close flush short-circuits everything else at
		// this timestamp.
		if clock.AtOrAfter(e.params.FlushAt) {
			e.flushOpenPositions(frames, ts, symbols)
			continue
		}

		// 2–3. No admissions or entries on the final day: every
		// position opened must have a full holding window behind it.
		if day != lastDay {
			if clock.AtOrAfter(e.params.ScanStart) && clock.Before(e.params.ScanEnd) {
				e.scanForCandidates(frames, ts, day, symbols, input.Daily)
			}
			e.tryEntries(frames, ts, symbols)
		}

		// 4. Manage whatever is open.
		e.managePositions(frames, ts, symbols)
	}

	// 5. End-of-data flush at each symbol's own last bar.
	e.closeOutRemaining(frames, symbols)

	return e.trades
}

// Trades returns the ledger accumulated so far.
func (e *Engine) Trades() []core.Trade {
	return e.trades
}

// prepare computes indicator frames and timestamp indexes, dropping
// symbols with no bars.
func (e *Engine) prepare(input Input) map[string]*symbolFrame {
	frames := make(map[string]*symbolFrame, len(input.Bars))
	for sym, bars := range input.Bars {
		if len(bars) == 0 {
			continue
		}
		f := indicator.Compute(bars)
		idx := make(map[int64]int, len(bars))
		for i, b := range bars {
			idx[b.Time.UnixNano()] = i
		}
		var floatShares int64
		if info, ok := input.Info[sym]; ok {
			floatShares = info.FloatShares
		}
		frames[sym] = &symbolFrame{symbol: sym, frame: f, index: idx, float: floatShares}
	}
	return frames
}

// unionTimestamps merges every symbol's timestamps into one ascending
// global index.
func unionTimestamps(frames map[string]*symbolFrame) []time.Time {
	seen := make(map[int64]time.Time)
	for _, sf := range frames {
		for _, b := range sf.frame.Bars {
			seen[b.Time.UnixNano()] = b.Time
		}
	}
	out := make([]time.Time, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// scanForCandidates admits symbols to the watchlist: day-level
// eligibility, momentum and HOD proximity must all hold, and the
// symbol must not already be watched. Entries are never purged except
// on position open.
func (e *Engine) scanForCandidates(frames map[string]*symbolFrame, ts time.Time, day core.Date, symbols []string, daily strategy.DailyCriteria) {
	for _, sym := range symbols {
		if _, watched := e.watchlist[sym]; watched {
			continue
		}
		sf := frames[sym]
		i, ok := sf.index[ts.UnixNano()]
		if !ok {
			continue
		}
		if !daily.MetOn(sym, day) {
			continue
		}
		if !e.params.HasMomentum(sf.frame, i, sf.float) || !e.params.IsNearHOD(sf.frame, i) {
			continue
		}
		e.watchlist[sym] = ts
		e.metrics.WatchlistAdd()
		e.log.Info("watchlist add",
			zap.String("symbol", sym),
			zap.Time("time", ts),
			zap.Float64("price", sf.frame.Bars[i].Close),
			zap.Float64("rvol", sf.frame.RelativeVolume[i]),
		)
	}
}

// tryEntries opens positions for watched symbols whose entry gate
// passes at this bar. Entry is at the bar's close; the symbol's EMA
// touch markers are cleared on open.
func (e *Engine) tryEntries(frames map[string]*symbolFrame, ts time.Time, symbols []string) {
	for _, sym := range symbols {
		if _, watched := e.watchlist[sym]; !watched {
			continue
		}
		if _, open := e.positions[sym]; open {
			continue
		}
		sf := frames[sym]
		i, ok := sf.index[ts.UnixNano()]
		if !ok {
			continue
		}
		if !e.params.CheckEntry(sf.frame, i, sym, e.tracker) {
			continue
		}

		entryPrice := sf.frame.Bars[i].Close
		pos := newPosition(sym, entryPrice, ts, e.params)
		if pos.Shares <= 0 {
			continue
		}
		e.positions[sym] = pos
		e.tracker.Clear(sym)
		e.metrics.PositionOpened()
		e.log.Info("enter",
			zap.String("symbol", sym),
			zap.Time("time", ts),
			zap.Float64("price", entryPrice),
			zap.Int("shares", pos.Shares),
			zap.Float64("stop_loss", pos.StopLoss),
			zap.Float64("scale_out", pos.ScaleOutPrice),
		)
	}
}

// managePositions applies the per-bar exit rules in their fixed order:
// high-water update, scale-out, then stop/trailing off the updated
// trailing state, then take-profit (only if never scaled out). At most
// one of scale-out, stop and take-profit fires on a single bar.
func (e *Engine) managePositions(frames map[string]*symbolFrame, ts time.Time, symbols []string) {
	for _, sym := range symbols {
		pos, open := e.positions[sym]
		if !open {
			continue
		}
		sf := frames[sym]
		i, ok := sf.index[ts.UnixNano()]
		if !ok {
			continue
		}
		price := sf.frame.Bars[i].Close

		if price > pos.HighestPrice {
			pos.HighestPrice = price
		}

		if !pos.ScaledOut && price >= pos.ScaleOutPrice {
			sell := int(float64(pos.Shares) * e.params.ScaleOutFraction)
			e.recordExit(pos, price, ts, core.ScaleOutReason(e.params.ScaleOutTarget), sell)
			pos.ScaledOut = true
			pos.TrailingStopActive = true
			e.log.Info("trailing stop armed",
				zap.String("symbol", sym),
				zap.Float64("trailing_pct", e.params.TrailingStopPct),
			)
		}

		// The stop check deliberately reads the trailing state as
		// mutated by the scale-out above, on the same bar.
		if price <= pos.stopReference(e.params.TrailingStopPct) {
			e.recordExit(pos, price, ts, pos.stopReason(), pos.RemainingShares)
		} else if price >= pos.TakeProfit && !pos.ScaledOut {
			e.recordExit(pos, price, ts, core.ExitTakeProfit, pos.RemainingShares)
		}
	}
}

// flushOpenPositions force-exits every open position that has a bar at
// this timestamp, at that bar's close.
func (e *Engine) flushOpenPositions(frames map[string]*symbolFrame, ts time.Time, symbols []string) {
	for _, sym := range symbols {
		pos, open := e.positions[sym]
		if !open {
			continue
		}
		sf := frames[sym]
		i, ok := sf.index[ts.UnixNano()]
		if !ok {
			continue
		}
		e.recordExit(pos, sf.frame.Bars[i].Close, ts, core.ExitMarketClose, pos.RemainingShares)
	}
}

// closeOutRemaining exits anything still open at each symbol's last
// available bar.
func (e *Engine) closeOutRemaining(frames map[string]*symbolFrame, symbols []string) {
	for _, sym := range symbols {
		pos, open := e.positions[sym]
		if !open {
			continue
		}
		bars := frames[sym].frame.Bars
		last := bars[len(bars)-1]
		e.recordExit(pos, last.Close, last.Time, core.ExitEndOfData, pos.RemainingShares)
	}
}
