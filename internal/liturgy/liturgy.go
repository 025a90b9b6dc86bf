package liturgy

import (
	"context"
	"errors"
	"fmt"

	"github.com/hebcal/hdate"
	"github.com/hebcal/hebcal-go/sedra"

	"github.com/zapponejosh/zmanim-schedule/internal/calendar"
)

// ErrUnknownReading is returned when the reading for a date has no entry in
// the name table.
var ErrUnknownReading = errors.New("unknown weekly reading")

// Service looks up the weekly reading for a Sabbath.
type Service interface {
	ReadingIndex(ctx context.Context, day calendar.Day) (Parsha, error)
}

// Calendar is the Service backed by the Hebrew calendar reading cycle.
type Calendar struct {
	inIsrael bool
}

// NewCalendar creates a reading calendar for Israel or the diaspora.
func NewCalendar(inIsrael bool) *Calendar {
	return &Calendar{inIsrael: inIsrael}
}

// InIsrael reports which reading schedule the calendar follows.
func (c *Calendar) InIsrael() bool {
	return c.inIsrael
}

// ReadingIndex returns the reading for the Sabbath on or after day.
// A Sabbath that falls on a festival returns NONE.
func (c *Calendar) ReadingIndex(_ context.Context, day calendar.Day) (Parsha, error) {
	reading := c.lookup(day)
	if reading.Chag {
		return NONE, nil
	}

	p, ok := fromTorahOrder(reading.Num)
	if !ok {
		return NONE, fmt.Errorf("%s %v: %w", day, reading.Name, ErrUnknownReading)
	}
	return p, nil
}

// lookup returns the reading cycle's entry for the Sabbath on or after day.
func (c *Calendar) lookup(day calendar.Day) sedra.Parsha {
	year, month, d := day.Date()
	hd := hdate.FromGregorian(year, month, d)
	s := sedra.New(hd.Year(), c.inIsrael)
	return s.Lookup(hd)
}
