// Package timeutil holds the timestamp conventions of the score tracker.
// Timestamps are persisted as local wall-clock strings ("2006-01-02 15:04:05")
// and compared verbatim, so every component formats them through this package.
package timeutil

import (
	"time"
)

// Layout is the persisted timestamp layout.
const Layout = "2006-01-02 15:04:05"

// Clock returns the current time. Tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the wall clock in the local timezone.
var System Clock = systemClock{}

// Fixed returns a clock that always reports t.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Format renders t in the persisted layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Stamp returns the clock's current time in the persisted layout.
func Stamp(c Clock) string {
	if c == nil {
		c = System
	}
	return Format(c.Now())
}

// Parse reads a persisted timestamp in the local timezone.
func Parse(value string) (time.Time, error) {
	return time.ParseInLocation(Layout, value, time.Local)
}
