// Package loader reads the flat-file inputs the engine consumes:
// per-symbol minute-bar CSVs, optional daily history for the day-level
// eligibility gate, and an optional symbol-info sidecar with float
// shares. All timestamps are normalized to the venue zone and minute
// bars are clipped to the regular session before they reach the engine.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/hodback/internal/core"
)

var sessionOpen = core.Clock{Hour: 9, Minute: 30}
var sessionClose = core.Clock{Hour: 16}

// timeLayouts are attempted in order when parsing bar timestamps.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// LoadBars reads every <SYMBOL>.csv under dir into minute-bar series.
// Column order is time,open,high,low,close,volume with a header row.
// Bars outside the 09:30-16:00 session are dropped; the rest come back
// time-ascending in the venue zone.
func LoadBars(dir string, loc *time.Location) (map[string][]core.Bar, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no csv files under %s", dir))
	}
	sort.Strings(files)

	out := make(map[string][]core.Bar, len(files))
	for _, path := range files {
		symbol := symbolFromPath(path)
		bars, err := loadBarFile(path, symbol, loc)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		if len(bars) > 0 {
			out[symbol] = bars
		}
	}
	return out, nil
}

func loadBarFile(path, symbol string, loc *time.Location) ([]core.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	var bars []core.Bar
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if first {
			first = false
			if !isNumeric(rec[1]) {
				continue // header row
			}
		}

		ts, err := parseTime(rec[0], loc)
		if err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		ts = ts.In(loc)

		clock := core.ClockOf(ts)
		if clock.Before(sessionOpen) || sessionClose.Before(clock) {
			continue
		}

		bar := core.Bar{Symbol: symbol, Time: ts}
		if bar.Open, err = strconv.ParseFloat(rec[1], 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if bar.High, err = strconv.ParseFloat(rec[2], 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if bar.Low, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if bar.Close, err = strconv.ParseFloat(rec[4], 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if bar.Volume, err = strconv.ParseInt(rec[5], 10, 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// LoadDaily reads per-symbol daily history CSVs
// (date,open,high,low,close,volume) used by the day-level screen.
// A missing directory is not an error; it just disables the gate.
func LoadDaily(dir string) (map[string][]core.DailyBar, error) {
	if dir == "" {
		return nil, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	out := make(map[string][]core.DailyBar, len(files))
	for _, path := range files {
		symbol := symbolFromPath(path)
		days, err := loadDailyFile(path, symbol)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		if len(days) > 0 {
			out[symbol] = days
		}
	}
	return out, nil
}

func loadDailyFile(path, symbol string) ([]core.DailyBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	var days []core.DailyBar
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if first {
			first = false
			if !isNumeric(rec[1]) {
				continue
			}
		}

		day, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}

		d := core.DailyBar{Symbol: symbol, Date: core.DateOf(day)}
		if d.Open, err = strconv.ParseFloat(rec[1], 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if d.High, err = strconv.ParseFloat(rec[2], 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if d.Low, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if d.Close, err = strconv.ParseFloat(rec[4], 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if d.Volume, err = strconv.ParseInt(rec[5], 10, 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		days = append(days, d)
	}

	sort.Slice(days, func(i, j int) bool { return days[j].Date.After(days[i].Date) })
	return days, nil
}

// LoadInfo reads the symbol-info sidecar (symbol,price,float_shares).
// A missing path disables the float filter rather than failing.
func LoadInfo(path string) (map[string]core.SymbolInfo, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3

	out := make(map[string]core.SymbolInfo)
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if first {
			first = false
			if !isNumeric(rec[1]) {
				continue
			}
		}

		info := core.SymbolInfo{Symbol: strings.ToUpper(strings.TrimSpace(rec[0]))}
		if info.Price, err = strconv.ParseFloat(rec[1], 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		if info.FloatShares, err = strconv.ParseInt(rec[2], 10, 64); err != nil {
			return nil, core.WrapError(core.ErrBadBar, err)
		}
		out[info.Symbol] = info
	}
	return out, nil
}

func symbolFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}
