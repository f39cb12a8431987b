package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/hodback/internal/config"
	"github.com/newthinker/hodback/internal/engine"
	"github.com/newthinker/hodback/internal/loader"
	"github.com/newthinker/hodback/internal/logger"
	"github.com/newthinker/hodback/internal/metrics"
	"github.com/newthinker/hodback/internal/report"
	"github.com/newthinker/hodback/internal/strategy"
)

var (
	backtestBarsDir string
	backtestOutDir  string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay minute bars through the Momentum HOD strategy",
	Long:  "Load per-symbol minute-bar CSVs, run the simulation, print the summary and save the trade ledger",
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestBarsDir, "bars", "", "minute-bar CSV directory (overrides config)")
	backtestCmd.Flags().StringVar(&backtestOutDir, "out", "", "report output directory (overrides config)")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg := config.Defaults()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if backtestBarsDir != "" {
		cfg.Data.BarsDir = backtestBarsDir
	}
	if backtestOutDir != "" {
		cfg.Report.OutputDir = backtestOutDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Must(debug || cfg.Log.Development)
	defer log.Sync()

	params, err := cfg.Strategy.Params()
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.Data.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	bars, err := loader.LoadBars(cfg.Data.BarsDir, loc)
	if err != nil {
		return err
	}
	daily, err := loader.LoadDaily(cfg.Data.DailyDir)
	if err != nil {
		return err
	}
	info, err := loader.LoadInfo(cfg.Data.InfoFile)
	if err != nil {
		return err
	}
	log.Info("data loaded",
		zap.Int("symbols", len(bars)),
		zap.Int("daily_histories", len(daily)),
		zap.Int("symbol_infos", len(info)),
	)

	criteria := make(strategy.DailyCriteria)
	for sym, days := range daily {
		var floatShares int64
		if si, ok := info[sym]; ok {
			floatShares = si.FloatShares
		}
		for day, met := range params.CheckDailyCriteria(floatShares, days) {
			criteria.Set(sym, day, met)
		}
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	eng := engine.New(params,
		engine.WithLogger(log),
		engine.WithMetrics(reg),
		engine.WithLocation(loc),
	)

	start := time.Now()
	trades := eng.Run(engine.Input{Bars: bars, Info: info, Daily: criteria})
	reg.ObserveBacktestDuration(time.Since(start))

	rep := report.New(trades)
	if err := rep.WriteSummary(os.Stdout); err != nil {
		return err
	}
	if len(trades) > 0 {
		path, err := rep.Save(cfg.Report.OutputDir)
		if err != nil {
			return err
		}
		fmt.Printf("Results saved to %s\n", path)
	}
	return nil
}
