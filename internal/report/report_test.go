package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/hodback/internal/core"
)

func sampleLedger() []core.Trade {
	entry := time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)
	return []core.Trade{
		{
			Symbol:     "ABCD",
			EntryTime:  entry,
			EntryPrice: 4.70,
			ExitTime:   entry.Add(time.Minute),
			ExitPrice:  5.20,
			Shares:     142,
			PnL:        71.0,
			PnLPct:     10.64,
			Reason:     core.ScaleOutReason(0.08),
		},
		{
			Symbol:     "ABCD",
			EntryTime:  entry,
			EntryPrice: 4.70,
			ExitTime:   entry.Add(3 * time.Minute),
			ExitPrice:  5.00,
			Shares:     70,
			PnL:        21.0,
			PnLPct:     6.38,
			Reason:     core.ExitTrailingStop,
		},
	}
}

func TestNew(t *testing.T) {
	rep := New(sampleLedger())

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 2, rep.Stats.TotalTrades)
	assert.InDelta(t, 92.0, rep.Stats.TotalPnL, 1e-9)
}

func TestCSV_Replayable(t *testing.T) {
	ledger := sampleLedger()
	rep := New(ledger)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteCSV(&buf))

	replayed, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, replayed, 2)

	// The replayed ledger carries everything the summary needs.
	assert.Equal(t, ledger[0].Symbol, replayed[0].Symbol)
	assert.Equal(t, ledger[0].Shares, replayed[0].Shares)
	assert.Equal(t, ledger[0].Reason, replayed[0].Reason)
	assert.InDelta(t, ledger[0].PnL, replayed[0].PnL, 1e-9)
	assert.Equal(t, ledger[1].Reason, replayed[1].Reason)

	first := New(replayed).Stats
	second := New(replayed).Stats
	assert.Equal(t, first, second, "replaying the same CSV gives identical stats")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(sampleLedger()).WriteSummary(&buf))

	out := buf.String()
	assert.Contains(t, out, "Total Trades: 2")
	assert.Contains(t, out, "Win Rate: 100.00%")
	assert.Contains(t, out, "Total PnL: $92.00")
}

func TestWriteSummary_NoTrades(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(nil).WriteSummary(&buf))
	assert.Contains(t, buf.String(), "No trades executed")
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path, err := New(sampleLedger()).Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backtest_results.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3, "header plus two records")
	assert.True(t, strings.HasPrefix(lines[0], "symbol,entry_time"))
}
