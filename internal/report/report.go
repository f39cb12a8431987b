// Package report renders a trade ledger into the flat-file outputs the
// dashboard consumes: a results CSV and a plain-text summary block.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/newthinker/hodback/internal/core"
	"github.com/newthinker/hodback/internal/engine"
)

const timeLayout = "2006-01-02 15:04"

// Report wraps one run's ledger with identity and summary statistics.
// The CSV content is a pure function of the ledger; only the run ID and
// generation time vary between runs.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Trades      []core.Trade
	Stats       engine.Stats
}

// New builds a report for the given ledger with a fresh run ID.
func New(trades []core.Trade) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Trades:      trades,
		Stats:       engine.CalculateStats(trades),
	}
}

// WriteCSV writes the ledger in the backtest_results layout.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"symbol", "entry_time", "entry_price", "exit_time", "exit_price",
		"shares", "pnl", "pnl_pct", "reason",
	}); err != nil {
		return core.WrapError(core.ErrReportFailed, err)
	}

	for _, t := range r.Trades {
		rec := []string{
			t.Symbol,
			t.EntryTime.Format(timeLayout),
			strconv.FormatFloat(t.EntryPrice, 'f', 4, 64),
			t.ExitTime.Format(timeLayout),
			strconv.FormatFloat(t.ExitPrice, 'f', 4, 64),
			strconv.Itoa(t.Shares),
			strconv.FormatFloat(t.PnL, 'f', 2, 64),
			strconv.FormatFloat(t.PnLPct, 'f', 2, 64),
			string(t.Reason),
		}
		if err := cw.Write(rec); err != nil {
			return core.WrapError(core.ErrReportFailed, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return core.WrapError(core.ErrReportFailed, err)
	}
	return nil
}

// WriteSummary writes the human-readable performance block.
func (r *Report) WriteSummary(w io.Writer) error {
	s := r.Stats
	var err error
	write := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	write("================================================================================\n")
	write("BACKTEST SUMMARY  (run %s)\n", r.RunID)
	write("================================================================================\n")
	if s.TotalTrades == 0 {
		write("No trades executed\n")
	} else {
		write("Total Trades: %d\n", s.TotalTrades)
		write("Winning: %d | Losing: %d\n", s.WinningTrades, s.LosingTrades)
		write("Win Rate: %.2f%%\n", s.WinRate)
		write("Total PnL: $%.2f\n", s.TotalPnL)
		write("Average PnL: $%.2f\n", s.AvgPnL)
		write("Max Drawdown: $%.2f\n", s.MaxDrawdown)
	}
	write("================================================================================\n")

	if err != nil {
		return core.WrapError(core.ErrReportFailed, err)
	}
	return nil
}

// Save writes the results CSV under dir and returns its path.
func (r *Report) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", core.WrapError(core.ErrReportFailed, err)
	}
	path := filepath.Join(dir, "backtest_results.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", core.WrapError(core.ErrReportFailed, err)
	}
	defer f.Close()

	if err := r.WriteCSV(f); err != nil {
		return "", err
	}
	return path, nil
}
