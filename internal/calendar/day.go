// Package calendar provides calendar dates and the weekly partitioning
// used to build the shul schedule.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the YYYY-MM-DD layout used for dates in config, the API and the cache.
const DateLayout = "2006-01-02"

// ShortLayout formats a day as it appears in week labels ("Oct 19").
const ShortLayout = "Jan 2"

// Day is a calendar date without a time component.
// The zero value is not a valid date; use NewDay, DayOf or ParseDay.
type Day struct {
	t time.Time // always midnight UTC
}

// NewDay returns the Day for the given year, month and day of month.
// Out-of-range values are normalized the same way time.Date does.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	return NewDay(t.Date())
}

// ParseDay parses a date string in YYYY-MM-DD format.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// Date returns the year, month and day of month.
func (d Day) Date() (int, time.Month, int) {
	return d.t.Date()
}

// Weekday returns the day of the week (Sunday=0).
func (d Day) Weekday() time.Weekday {
	return d.t.Weekday()
}

// ISOWeekday returns Monday=1 through Saturday=6 and Sunday=7.
func (d Day) ISOWeekday() int {
	if wd := d.t.Weekday(); wd != time.Sunday {
		return int(wd)
	}
	return 7
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// AddMonths returns the day n calendar months after d.
func (d Day) AddMonths(n int) Day {
	return Day{t: d.t.AddDate(0, n, 0)}
}

// Before reports whether d is earlier than o.
func (d Day) Before(o Day) bool { return d.t.Before(o.t) }

// After reports whether d is later than o.
func (d Day) After(o Day) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same date.
func (d Day) Equal(o Day) bool { return d.t.Equal(o.t) }

// Sub returns the number of days from o to d.
func (d Day) Sub(o Day) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

// Short formats the day for week labels, e.g. "Oct 19".
func (d Day) Short() string {
	return d.t.Format(ShortLayout)
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AlignToWeek returns the Sunday on or before d.
func AlignToWeek(d Day) Day {
	return d.AddDays(-int(d.Weekday()))
}

// Window returns the inclusive observation window starting at start and
// ending the given number of calendar months later.
func Window(start Day, months int) (Day, Day) {
	return start, start.AddMonths(months)
}
