package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/newthinker/hodback/internal/core"
	"github.com/newthinker/hodback/internal/strategy"
)

type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Strategy StrategyConfig `mapstructure:"strategy"`
	Log      LogConfig      `mapstructure:"log"`
	Report   ReportConfig   `mapstructure:"report"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type DataConfig struct {
	// BarsDir holds one <SYMBOL>.csv of minute bars per symbol.
	BarsDir string `mapstructure:"bars_dir"`
	// DailyDir holds optional <SYMBOL>.csv daily history for the
	// day-level eligibility gate.
	DailyDir string `mapstructure:"daily_dir"`
	// InfoFile is the optional symbol-info sidecar (float shares).
	InfoFile string `mapstructure:"info_file"`
	// Timezone is the trading-venue zone all timestamps normalize to.
	Timezone string `mapstructure:"timezone"`
}

type StrategyConfig struct {
	ScanStart string `mapstructure:"scan_start"`
	ScanEnd   string `mapstructure:"scan_end"`
	FlushAt   string `mapstructure:"flush_at"`

	RSIThreshold    float64 `mapstructure:"rsi_threshold"`
	StopLossPct     float64 `mapstructure:"stop_loss_pct"`
	TakeProfitPct   float64 `mapstructure:"take_profit_pct"`
	HODProximityPct float64 `mapstructure:"hod_proximity_pct"`
	TrailingStopPct float64 `mapstructure:"trailing_stop_pct"`

	ScaleOutTarget   float64 `mapstructure:"scale_out_target"`
	ScaleOutFraction float64 `mapstructure:"scale_out_fraction"`

	PositionSizeDollars float64 `mapstructure:"position_size_dollars"`

	MinPrice          float64 `mapstructure:"min_price"`
	MaxPrice          float64 `mapstructure:"max_price"`
	MaxFloat          int64   `mapstructure:"max_float"`
	MinRelativeVolume float64 `mapstructure:"min_relative_volume"`

	MinEntryDayVolume   int64   `mapstructure:"min_entry_day_volume"`
	EntryVolumeSurge    float64 `mapstructure:"entry_volume_surge"`
	MomentumVolumeRatio float64 `mapstructure:"momentum_volume_ratio"`
	MinHistoryBars      int     `mapstructure:"min_history_bars"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config carrying the production strategy defaults.
func Defaults() *Config {
	p := strategy.DefaultParams()
	return &Config{
		Data: DataConfig{
			BarsDir:  "data/bars",
			DailyDir: "data/daily",
			Timezone: "America/New_York",
		},
		Strategy: StrategyConfig{
			ScanStart:           p.ScanStart.String(),
			ScanEnd:             p.ScanEnd.String(),
			FlushAt:             p.FlushAt.String(),
			RSIThreshold:        p.RSIThreshold,
			StopLossPct:         p.StopLossPct,
			TakeProfitPct:       p.TakeProfitPct,
			HODProximityPct:     p.HODProximityPct,
			TrailingStopPct:     p.TrailingStopPct,
			ScaleOutTarget:      p.ScaleOutTarget,
			ScaleOutFraction:    p.ScaleOutFraction,
			PositionSizeDollars: p.PositionSizeDollars,
			MinPrice:            p.MinPrice,
			MaxPrice:            p.MaxPrice,
			MaxFloat:            p.MaxFloat,
			MinRelativeVolume:   p.MinRelativeVolume,
			MinEntryDayVolume:   p.MinEntryDayVolume,
			EntryVolumeSurge:    p.EntryVolumeSurge,
			MomentumVolumeRatio: p.MomentumVolumeRatio,
			MinHistoryBars:      p.MinHistoryBars,
		},
		Report: ReportConfig{
			OutputDir: "reports",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Params converts the strategy section into engine parameters.
func (s StrategyConfig) Params() (strategy.Params, error) {
	scanStart, err := core.ParseClock(s.ScanStart)
	if err != nil {
		return strategy.Params{}, core.WrapError(core.ErrConfigInvalid, err)
	}
	scanEnd, err := core.ParseClock(s.ScanEnd)
	if err != nil {
		return strategy.Params{}, core.WrapError(core.ErrConfigInvalid, err)
	}
	flushAt, err := core.ParseClock(s.FlushAt)
	if err != nil {
		return strategy.Params{}, core.WrapError(core.ErrConfigInvalid, err)
	}

	return strategy.Params{
		ScanStart:           scanStart,
		ScanEnd:             scanEnd,
		FlushAt:             flushAt,
		RSIThreshold:        s.RSIThreshold,
		StopLossPct:         s.StopLossPct,
		TakeProfitPct:       s.TakeProfitPct,
		HODProximityPct:     s.HODProximityPct,
		TrailingStopPct:     s.TrailingStopPct,
		ScaleOutTarget:      s.ScaleOutTarget,
		ScaleOutFraction:    s.ScaleOutFraction,
		PositionSizeDollars: s.PositionSizeDollars,
		MinPrice:            s.MinPrice,
		MaxPrice:            s.MaxPrice,
		MaxFloat:            s.MaxFloat,
		MinRelativeVolume:   s.MinRelativeVolume,
		MinEntryDayVolume:   s.MinEntryDayVolume,
		EntryVolumeSurge:    s.EntryVolumeSurge,
		MomentumVolumeRatio: s.MomentumVolumeRatio,
		MinHistoryBars:      s.MinHistoryBars,
	}, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	s := c.Strategy

	if s.MinPrice <= 0 || s.MaxPrice <= 0 || s.MinPrice > s.MaxPrice {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("price band [%f, %f] is not a valid range", s.MinPrice, s.MaxPrice))
	}
	if s.StopLossPct <= 0 || s.StopLossPct >= 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("stop_loss_pct must be in (0, 1), got %f", s.StopLossPct))
	}
	if s.TakeProfitPct <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("take_profit_pct must be positive, got %f", s.TakeProfitPct))
	}
	if s.ScaleOutFraction <= 0 || s.ScaleOutFraction >= 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("scale_out_fraction must be in (0, 1), got %f", s.ScaleOutFraction))
	}
	if s.TrailingStopPct <= 0 || s.TrailingStopPct >= 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("trailing_stop_pct must be in (0, 1), got %f", s.TrailingStopPct))
	}
	if s.PositionSizeDollars <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("position_size_dollars must be positive, got %f", s.PositionSizeDollars))
	}

	params, err := s.Params()
	if err != nil {
		return err
	}
	if !params.ScanStart.Before(params.ScanEnd) {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("scan window %s-%s is empty", params.ScanStart, params.ScanEnd))
	}

	if c.Data.BarsDir == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("data.bars_dir is required"))
	}
	if c.Data.Timezone != "" {
		if _, err := time.LoadLocation(c.Data.Timezone); err != nil {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown timezone %q", c.Data.Timezone))
		}
	}

	return nil
}
