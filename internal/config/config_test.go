package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/hodback/internal/core"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "10:00", cfg.Strategy.ScanStart)
	assert.Equal(t, "15:55", cfg.Strategy.FlushAt)
	assert.Equal(t, "America/New_York", cfg.Data.Timezone)

	p, err := cfg.Strategy.Params()
	require.NoError(t, err)
	assert.Equal(t, 60.0, p.RSIThreshold)
	assert.Equal(t, int64(30_000_000), p.MaxFloat)
}

func TestLoad(t *testing.T) {
	content := `
data:
  bars_dir: /tmp/bars
  timezone: America/New_York
strategy:
  scan_start: "10:00"
  scan_end: "14:00"
  flush_at: "15:55"
  rsi_threshold: 55
  stop_loss_pct: 0.04
  take_profit_pct: 0.10
  hod_proximity_pct: 0.10
  trailing_stop_pct: 0.05
  scale_out_target: 0.08
  scale_out_fraction: 0.67
  position_size_dollars: 2000
  min_price: 1
  max_price: 10
report:
  output_dir: /tmp/out
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/bars", cfg.Data.BarsDir)
	assert.Equal(t, 55.0, cfg.Strategy.RSIThreshold)
	assert.Equal(t, 2000.0, cfg.Strategy.PositionSizeDollars)
	assert.Equal(t, "/tmp/out", cfg.Report.OutputDir)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("HODBACK_TEST_BARS", "/data/minute")

	content := `
data:
  bars_dir: ${HODBACK_TEST_BARS}
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/minute", cfg.Data.BarsDir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted price band", func(c *Config) { c.Strategy.MinPrice = 10; c.Strategy.MaxPrice = 1 }},
		{"zero stop loss", func(c *Config) { c.Strategy.StopLossPct = 0 }},
		{"stop loss of one", func(c *Config) { c.Strategy.StopLossPct = 1 }},
		{"negative take profit", func(c *Config) { c.Strategy.TakeProfitPct = -0.1 }},
		{"full scale out", func(c *Config) { c.Strategy.ScaleOutFraction = 1 }},
		{"zero position size", func(c *Config) { c.Strategy.PositionSizeDollars = 0 }},
		{"unparseable clock", func(c *Config) { c.Strategy.ScanStart = "early" }},
		{"empty scan window", func(c *Config) { c.Strategy.ScanStart = "14:00"; c.Strategy.ScanEnd = "14:00" }},
		{"missing bars dir", func(c *Config) { c.Data.BarsDir = "" }},
		{"unknown timezone", func(c *Config) { c.Data.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t,
				errors.Is(err, core.ErrConfigInvalid) || errors.Is(err, core.ErrConfigMissing),
				"error should carry a config code, got %v", err)
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Defaults().Validate())
}
