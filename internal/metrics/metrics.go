package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics for a backtest run. Every
// recording method is nil-safe so the engine can run without any
// metrics wiring at all.
type Registry struct {
	*prometheus.Registry

	watchlistAdds    prometheus.Counter
	positionsOpened  prometheus.Counter
	exitsTotal       *prometheus.CounterVec
	backtestDuration prometheus.Histogram
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		watchlistAdds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hodback_watchlist_adds_total",
				Help: "Total number of watchlist admissions",
			},
		),

		positionsOpened: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hodback_positions_opened_total",
				Help: "Total number of positions opened",
			},
		),

		exitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hodback_exits_total",
				Help: "Total number of exit records by reason",
			},
			[]string{"reason"},
		),

		backtestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hodback_backtest_duration_seconds",
				Help:    "Wall time spent inside a backtest run",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(
		r.watchlistAdds,
		r.positionsOpened,
		r.exitsTotal,
		r.backtestDuration,
	)

	return r
}

// WatchlistAdd counts one watchlist admission.
func (r *Registry) WatchlistAdd() {
	if r == nil {
		return
	}
	r.watchlistAdds.Inc()
}

// PositionOpened counts one position entry.
func (r *Registry) PositionOpened() {
	if r == nil {
		return
	}
	r.positionsOpened.Inc()
}

// ExitRecorded counts one ledger record by exit reason.
func (r *Registry) ExitRecorded(reason string) {
	if r == nil {
		return
	}
	r.exitsTotal.WithLabelValues(reason).Inc()
}

// ObserveBacktestDuration records the wall time of a run.
func (r *Registry) ObserveBacktestDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.backtestDuration.Observe(d.Seconds())
}
