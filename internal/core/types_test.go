package core

import (
	"testing"
	"time"
)

func TestBar_Red(t *testing.T) {
	red := Bar{Open: 5.0, Close: 4.8}
	if !red.Red() {
		t.Error("expected red bar")
	}

	green := Bar{Open: 4.8, Close: 5.0}
	if green.Red() {
		t.Error("expected green bar")
	}

	doji := Bar{Open: 5.0, Close: 5.0}
	if doji.Red() {
		t.Error("doji should not be red")
	}
}

func TestBar_TypicalPrice(t *testing.T) {
	b := Bar{High: 6.0, Low: 3.0, Close: 4.5}
	if got := b.TypicalPrice(); got != 4.5 {
		t.Errorf("TypicalPrice = %v, want 4.5", got)
	}
}

func TestDateOf(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	ts := time.Date(2024, time.March, 15, 10, 30, 0, 0, loc)
	d := DateOf(ts)

	if d != (Date{Year: 2024, Month: time.March, Day: 15}) {
		t.Errorf("DateOf = %v, want 2024-03-15", d)
	}
	if d.String() != "2024-03-15" {
		t.Errorf("String = %v, want 2024-03-15", d.String())
	}
}

func TestDate_After(t *testing.T) {
	a := Date{Year: 2024, Month: time.March, Day: 15}
	b := Date{Year: 2024, Month: time.March, Day: 16}
	c := Date{Year: 2024, Month: time.April, Day: 1}
	d := Date{Year: 2025, Month: time.January, Day: 1}

	if a.After(b) {
		t.Error("2024-03-15 should not be after 2024-03-16")
	}
	if !b.After(a) || !c.After(b) || !d.After(c) {
		t.Error("expected later dates to compare After")
	}
	if a.After(a) {
		t.Error("a date is not after itself")
	}
}

func TestScaleOutReason(t *testing.T) {
	tests := []struct {
		target float64
		want   ExitReason
	}{
		{0.08, "SCALE_OUT_8%"},
		{0.10, "SCALE_OUT_10%"},
		{0.125, "SCALE_OUT_12.5%"},
	}

	for _, tt := range tests {
		if got := ScaleOutReason(tt.target); got != tt.want {
			t.Errorf("ScaleOutReason(%v) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestTrade_IsWin(t *testing.T) {
	if !(Trade{PnL: 12.5}).IsWin() {
		t.Error("positive pnl should be a win")
	}
	if (Trade{PnL: -3.0}).IsWin() {
		t.Error("negative pnl should not be a win")
	}
	if (Trade{PnL: 0}).IsWin() {
		t.Error("flat pnl should not be a win")
	}
}
