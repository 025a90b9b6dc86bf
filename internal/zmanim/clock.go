// Package zmanim derives the displayed prayer times from sunrise and sunset.
package zmanim

import (
	"fmt"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// Clock is a local wall-clock time, in seconds since midnight.
//
// Offsets and rounding are plain integer arithmetic on Clock; values always
// stay within [0, secondsPerDay).
type Clock int

// NewClock returns the clock reading for hour, minute and second.
func NewClock(hour, minute, second int) Clock {
	return Clock(0).AddSeconds(hour*secondsPerHour + minute*secondsPerMinute + second)
}

// ClockOf returns the wall-clock reading of t in its own location.
// Sub-second precision is discarded.
func ClockOf(t time.Time) Clock {
	h, m, s := t.Clock()
	return NewClock(h, m, s)
}

// AddSeconds returns c moved by n seconds, wrapping around midnight.
func (c Clock) AddSeconds(n int) Clock {
	v := (int(c) + n) % secondsPerDay
	if v < 0 {
		v += secondsPerDay
	}
	return Clock(v)
}

// AddMinutes returns c moved by n minutes, wrapping around midnight.
func (c Clock) AddMinutes(n int) Clock {
	return c.AddSeconds(n * secondsPerMinute)
}

// Hour returns the hour of day, 0-23.
func (c Clock) Hour() int { return int(c) / secondsPerHour }

// Minute returns the minute of the hour, 0-59.
func (c Clock) Minute() int { return int(c) % secondsPerHour / secondsPerMinute }

// Second returns the second of the minute, 0-59.
func (c Clock) Second() int { return int(c) % secondsPerMinute }

// TruncateMinute drops the seconds.
func (c Clock) TruncateMinute() Clock {
	return c - Clock(c.Second())
}

// RoundMinute rounds to the nearest minute; exactly thirty seconds rounds up.
func (c Clock) RoundMinute() Clock {
	return c.AddSeconds(30).TruncateMinute()
}

// FloorMinute rounds the minute of the hour down to a multiple of step and
// drops the seconds. The hour never changes.
func (c Clock) FloorMinute(step int) Clock {
	return NewClock(c.Hour(), floorTo(c.Minute(), step), 0)
}

// floorTo rounds n down to a multiple of step.
func floorTo(n, step int) int {
	if step <= 1 {
		return n
	}
	return n / step * step
}

// String formats the clock as "h:mm" with a lowercase am/pm suffix and no
// leading zero, e.g. "6:46am".
func (c Clock) String() string {
	h := c.Hour()

	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}

	h %= 12
	if h == 0 {
		h = 12
	}

	return fmt.Sprintf("%d:%02d%s", h, c.Minute(), suffix)
}

// ParseClock parses a time formatted by Clock.String.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("3:04pm", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return ClockOf(t), nil
}
