// Package astronomy computes the daily sun times the schedule is built from.
package astronomy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/zapponejosh/zmanim-schedule/internal/calendar"
)

// Mode selects how much is computed for each day.
type Mode string

const (
	// ModeBasic computes sunrise and sunset only.
	ModeBasic Mode = "basic"

	// ModeExtended also computes solar noon.
	ModeExtended Mode = "extended"
)

// IsValid checks if a mode is known.
func (m Mode) IsValid() bool {
	return m == ModeBasic || m == ModeExtended
}

// ErrNoSunriseSunset is returned when the sun does not rise or set on a day
// at the configured location.
var ErrNoSunriseSunset = errors.New("no sunrise or sunset")

// Config fixes the location the service computes for.
type Config struct {
	TimeZone  *time.Location
	Latitude  float64
	Longitude float64
	Mode      Mode
}

// Snapshot holds the sun times for one day, in the configured time zone.
type Snapshot struct {
	Day       calendar.Day `json:"date"`
	Sunrise   time.Time    `json:"sunrise"`
	Sunset    time.Time    `json:"sunset"`
	SolarNoon *time.Time   `json:"solar_noon,omitempty"` // extended mode only
}

// Service looks up the sun times for a day.
type Service interface {
	Zmanim(ctx context.Context, day calendar.Day) (Snapshot, error)
}

// Calculator is the Service backed by the sunrise equation.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator for the given location.
// A nil time zone means UTC; an empty mode means ModeBasic.
func NewCalculator(cfg Config) *Calculator {
	if cfg.TimeZone == nil {
		cfg.TimeZone = time.UTC
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeBasic
	}
	return &Calculator{cfg: cfg}
}

// Config returns the location the calculator computes for.
func (c *Calculator) Config() Config {
	return c.cfg
}

// Zmanim computes sunrise and sunset for day.
func (c *Calculator) Zmanim(_ context.Context, day calendar.Day) (Snapshot, error) {
	year, month, d := day.Date()

	rise, set := sunrise.SunriseSunset(c.cfg.Latitude, c.cfg.Longitude, year, month, d)
	if rise.IsZero() || set.IsZero() {
		return Snapshot{}, fmt.Errorf("%s at %.4f,%.4f: %w", day, c.cfg.Latitude, c.cfg.Longitude, ErrNoSunriseSunset)
	}

	snap := Snapshot{
		Day:     day,
		Sunrise: rise.In(c.cfg.TimeZone),
		Sunset:  set.In(c.cfg.TimeZone),
	}

	if c.cfg.Mode == ModeExtended {
		noon := rise.Add(set.Sub(rise) / 2).In(c.cfg.TimeZone)
		snap.SolarNoon = &noon
	}

	return snap, nil
}
