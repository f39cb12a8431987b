package metrics

import (
	"testing"
	"time"
)

func TestNilRegistryIsSafe(t *testing.T) {
	var r *Registry

	// A run without metrics wiring calls straight through nil.
	r.WatchlistAdd()
	r.PositionOpened()
	r.ExitRecorded("STOP_LOSS")
	r.ObserveBacktestDuration(time.Second)
}

func TestRegistryGather(t *testing.T) {
	r := NewRegistry()

	r.WatchlistAdd()
	r.WatchlistAdd()
	r.PositionOpened()
	r.ExitRecorded("TRAILING_STOP")
	r.ExitRecorded("TRAILING_STOP")
	r.ExitRecorded("MARKET_CLOSE")
	r.ObserveBacktestDuration(50 * time.Millisecond)

	families, err := r.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true

		switch mf.GetName() {
		case "hodback_watchlist_adds_total":
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 2 {
				t.Errorf("watchlist adds = %v, want 2", got)
			}
		case "hodback_exits_total":
			if got := len(mf.GetMetric()); got != 2 {
				t.Errorf("exit reason series = %d, want 2", got)
			}
		}
	}

	for _, name := range []string{
		"hodback_watchlist_adds_total",
		"hodback_positions_opened_total",
		"hodback_exits_total",
		"hodback_backtest_duration_seconds",
	} {
		if !found[name] {
			t.Errorf("metric %s not gathered", name)
		}
	}
}
