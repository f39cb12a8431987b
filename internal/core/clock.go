package core

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day in the trading venue's zone
type Clock struct {
	Hour   int
	Minute int
}

// ClockOf extracts the time of day from a timestamp in its own location
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseClock parses "HH:MM" into a Clock
func ParseClock(s string) (Clock, error) {
	var c Clock
	if _, err := fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Minute); err != nil {
		return Clock{}, fmt.Errorf("parsing clock %q: %w", s, err)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return Clock{}, fmt.Errorf("clock %q out of range", s)
	}
	return c, nil
}

// Minutes returns minutes since midnight
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Before reports whether c is strictly earlier than o
func (c Clock) Before(o Clock) bool {
	return c.Minutes() < o.Minutes()
}

// AtOrAfter reports whether c is at or later than o
func (c Clock) AtOrAfter(o Clock) bool {
	return c.Minutes() >= o.Minutes()
}

// String formats the clock as HH:MM
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
