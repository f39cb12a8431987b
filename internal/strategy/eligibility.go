package strategy

import "github.com/newthinker/hodback/internal/core"

// dailyLookback is how many trailing days the day-level gate covers.
const dailyLookback = 10

// dailyAvgVolumeWindow is the rolling window for daily relative volume.
const dailyAvgVolumeWindow = 20

// MeetsCriteria is the per-bar small-cap filter: price inside the band,
// relative volume at or above the minimum, float at or below the cap.
// An unknown float (floatShares <= 0) passes. Pure, no side effects.
func (p Params) MeetsCriteria(price, relVolume float64, floatShares int64) bool {
	if price < p.MinPrice || price > p.MaxPrice {
		return false
	}
	if relVolume < p.MinRelativeVolume {
		return false
	}
	if floatShares > 0 && floatShares > p.MaxFloat {
		return false
	}
	return true
}

// DailyCriteria records which symbols met the day-level screen on which
// calendar days. Missing symbols or days fail closed.
type DailyCriteria map[string]map[core.Date]bool

// MetOn reports whether the symbol passed the day-level screen on the
// given day. Absent data means not eligible.
func (d DailyCriteria) MetOn(symbol string, day core.Date) bool {
	days, ok := d[symbol]
	if !ok {
		return false
	}
	return days[day]
}

// Set marks a symbol/day result, allocating the inner map on demand.
func (d DailyCriteria) Set(symbol string, day core.Date, met bool) {
	days, ok := d[symbol]
	if !ok {
		days = make(map[core.Date]bool)
		d[symbol] = days
	}
	days[day] = met
}

// CheckDailyCriteria evaluates the day-level screen for one symbol over
// its daily history: close inside the price band AND daily volume at
// least MinRelativeVolume times the trailing 20-day average. Fewer than
// ten days of history yields no results; a float above the cap marks
// every checked day false. Days without a settled 20-day average fail
// the volume leg.
func (p Params) CheckDailyCriteria(floatShares int64, daily []core.DailyBar) map[core.Date]bool {
	if len(daily) < dailyLookback {
		return nil
	}

	results := make(map[core.Date]bool)
	start := len(daily) - dailyLookback

	if floatShares > 0 && floatShares > p.MaxFloat {
		for _, d := range daily[start:] {
			results[d.Date] = false
		}
		return results
	}

	for i := start; i < len(daily); i++ {
		d := daily[i]
		priceOK := d.Close >= p.MinPrice && d.Close <= p.MaxPrice

		rvolOK := false
		if i >= dailyAvgVolumeWindow-1 {
			var sum int64
			for _, prev := range daily[i-dailyAvgVolumeWindow+1 : i+1] {
				sum += prev.Volume
			}
			avg := float64(sum) / dailyAvgVolumeWindow
			if avg > 0 {
				rvolOK = float64(d.Volume)/avg >= p.MinRelativeVolume
			}
		}

		results[d.Date] = priceOK && rvolOK
	}
	return results
}
