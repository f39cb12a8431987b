package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/hodback/internal/core"
)

// recordExit appends one immutable ledger record for a full or partial
// exit, decrements the position's remaining shares, and removes the
// position once nothing is left. Records are never mutated or removed
// after append. A request for more shares than remain sells the
// remainder; RemainingShares never goes negative.
func (e *Engine) recordExit(pos *Position, price float64, ts time.Time, reason core.ExitReason, shares int) {
	if shares <= 0 || shares > pos.RemainingShares {
		shares = pos.RemainingShares
	}

	pnl := (price - pos.EntryPrice) * float64(shares)
	pnlPct := (price/pos.EntryPrice - 1) * 100

	e.trades = append(e.trades, core.Trade{
		Symbol:     pos.Symbol,
		EntryTime:  pos.EntryTime,
		EntryPrice: pos.EntryPrice,
		ExitTime:   ts,
		ExitPrice:  price,
		Shares:     shares,
		PnL:        pnl,
		PnLPct:     pnlPct,
		Reason:     reason,
	})

	pos.RemainingShares -= shares
	full := pos.RemainingShares <= 0
	if full {
		delete(e.positions, pos.Symbol)
	}
	e.metrics.ExitRecorded(string(reason))

	e.log.Info("exit",
		zap.String("symbol", pos.Symbol),
		zap.Time("time", ts),
		zap.Float64("price", price),
		zap.String("reason", string(reason)),
		zap.Int("shares", shares),
		zap.Float64("pnl", pnl),
		zap.Float64("pnl_pct", pnlPct),
		zap.Bool("full_exit", full),
	)
}
