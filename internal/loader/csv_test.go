package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/hodback/internal/core"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadBars(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	dir := t.TempDir()
	writeFile(t, dir, "abcd.csv", `time,open,high,low,close,volume
2024-03-14 09:29,4.90,4.95,4.85,4.92,900
2024-03-14 09:30,4.95,5.00,4.90,4.98,1200
2024-03-14 09:31,4.98,5.05,4.95,5.02,1500
2024-03-14 16:01,5.10,5.12,5.08,5.11,400
`)

	bars, err := LoadBars(dir, loc)
	require.NoError(t, err)
	require.Contains(t, bars, "ABCD")

	got := bars["ABCD"]
	require.Len(t, got, 2, "bars outside 09:30-16:00 are clipped")

	assert.Equal(t, "ABCD", got[0].Symbol)
	assert.Equal(t, 4.98, got[0].Close)
	assert.Equal(t, int64(1200), got[0].Volume)
	assert.Equal(t, core.Clock{Hour: 9, Minute: 30}, core.ClockOf(got[0].Time))
	assert.Equal(t, loc, got[0].Time.Location())
	assert.True(t, got[0].Time.Before(got[1].Time))
}

func TestLoadBars_RFC3339Timestamps(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	dir := t.TempDir()
	// UTC timestamps normalize into the venue zone (14:30Z == 10:30 EDT).
	writeFile(t, dir, "efgh.csv", `time,open,high,low,close,volume
2024-06-14T14:30:00Z,4.95,5.00,4.90,4.98,1200
`)

	bars, err := LoadBars(dir, loc)
	require.NoError(t, err)
	require.Len(t, bars["EFGH"], 1)
	assert.Equal(t, core.Clock{Hour: 10, Minute: 30}, core.ClockOf(bars["EFGH"][0].Time))
}

func TestLoadBars_EmptyDir(t *testing.T) {
	loc := time.UTC
	_, err := LoadBars(t.TempDir(), loc)
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestLoadBars_MalformedRow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.csv", `time,open,high,low,close,volume
2024-03-14 10:00,not-a-number,5.00,4.90,4.98,1200
`)

	_, err := LoadBars(dir, time.UTC)
	assert.ErrorIs(t, err, core.ErrBadBar)
}

func TestLoadDaily(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "abcd.csv", `date,open,high,low,close,volume
2024-03-13,4.80,5.10,4.70,5.00,2000000
2024-03-12,4.60,4.90,4.50,4.80,1500000
`)

	daily, err := LoadDaily(dir)
	require.NoError(t, err)
	require.Len(t, daily["ABCD"], 2)

	// Rows come back date-ascending regardless of file order.
	assert.Equal(t, core.Date{Year: 2024, Month: time.March, Day: 12}, daily["ABCD"][0].Date)
	assert.Equal(t, 5.00, daily["ABCD"][1].Close)
}

func TestLoadDaily_NoDirConfigured(t *testing.T) {
	daily, err := LoadDaily("")
	require.NoError(t, err)
	assert.Nil(t, daily)
}

func TestLoadInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "info.csv")
	err := os.WriteFile(path, []byte(`symbol,price,float_shares
abcd,4.70,25000000
EFGH,2.10,12000000
`), 0o644)
	require.NoError(t, err)

	info, err := LoadInfo(path)
	require.NoError(t, err)
	require.Len(t, info, 2)

	assert.Equal(t, int64(25_000_000), info["ABCD"].FloatShares, "symbols are upcased")
	assert.Equal(t, 2.10, info["EFGH"].Price)
}

func TestLoadInfo_MissingFile(t *testing.T) {
	info, err := LoadInfo(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err, "a missing sidecar just disables the float filter")
	assert.Nil(t, info)
}
