package astronomy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zapponejosh/zmanim-schedule/internal/calendar"
	"github.com/zapponejosh/zmanim-schedule/internal/database"
	"github.com/zapponejosh/zmanim-schedule/internal/metrics"
)

// Store is the subset of the database the cache needs.
// *database.DB satisfies it.
type Store interface {
	GetSnapshot(ctx context.Context, key database.SnapshotKey) (*database.SnapshotRow, error)
	UpsertSnapshot(ctx context.Context, row *database.SnapshotRow) error
}

// Cached serves snapshots from a Store and falls back to a Calculator,
// writing computed snapshots back.
type Cached struct {
	calc   *Calculator
	store  Store
	logger *slog.Logger
}

// NewCached wraps calc with store.
func NewCached(calc *Calculator, store Store, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{calc: calc, store: store, logger: logger}
}

func (c *Cached) key(day calendar.Day) database.SnapshotKey {
	cfg := c.calc.Config()
	return database.SnapshotKey{
		Date:      day.String(),
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Mode:      string(cfg.Mode),
	}
}

// Zmanim returns the cached snapshot for day, computing and storing it on a miss.
// A cached row with a malformed instant is returned as a *ParseError.
func (c *Cached) Zmanim(ctx context.Context, day calendar.Day) (Snapshot, error) {
	key := c.key(day)

	row, err := c.store.GetSnapshot(ctx, key)
	switch {
	case err == nil:
		metrics.IncLookup(metrics.ServiceAstronomy, metrics.SourceCache)
		return c.fromRow(day, row)
	case !database.IsNotFound(err):
		return Snapshot{}, fmt.Errorf("read cached snapshot: %w", err)
	}

	snap, err := c.calc.Zmanim(ctx, day)
	if err != nil {
		return Snapshot{}, err
	}
	metrics.IncLookup(metrics.ServiceAstronomy, metrics.SourceComputed)

	if err := c.store.UpsertSnapshot(ctx, c.toRow(key, snap)); err != nil {
		// The computed value is still good; only the cache write failed.
		c.logger.Warn("failed to cache snapshot",
			slog.String("date", key.Date),
			slog.Any("error", err),
		)
	}

	return snap, nil
}

func (c *Cached) toRow(key database.SnapshotKey, snap Snapshot) *database.SnapshotRow {
	row := &database.SnapshotRow{
		SnapshotKey: key,
		TimeZone:    c.calc.Config().TimeZone.String(),
		Sunrise:     FormatInstant(snap.Sunrise),
		Sunset:      FormatInstant(snap.Sunset),
	}
	if snap.SolarNoon != nil {
		noon := FormatInstant(*snap.SolarNoon)
		row.SolarNoon = &noon
	}
	return row
}

func (c *Cached) fromRow(day calendar.Day, row *database.SnapshotRow) (Snapshot, error) {
	loc := c.calc.Config().TimeZone

	rise, err := ParseInstant("sunrise", row.Sunrise, loc)
	if err != nil {
		return Snapshot{}, err
	}
	set, err := ParseInstant("sunset", row.Sunset, loc)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Day: day, Sunrise: rise, Sunset: set}

	if row.SolarNoon != nil {
		noon, err := ParseInstant("solar_noon", *row.SolarNoon, loc)
		if err != nil {
			return Snapshot{}, err
		}
		snap.SolarNoon = &noon
	}

	return snap, nil
}
