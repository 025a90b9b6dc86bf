package liturgy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zapponejosh/zmanim-schedule/internal/calendar"
	"github.com/zapponejosh/zmanim-schedule/internal/database"
	"github.com/zapponejosh/zmanim-schedule/internal/metrics"
)

// Store is the subset of the database the cache needs.
type Store interface {
	GetReading(ctx context.Context, date string, inIsrael bool) (*database.ReadingRow, error)
	UpsertReading(ctx context.Context, row *database.ReadingRow) error
}

// Cached serves reading indexes from a Store and falls back to a Calendar.
type Cached struct {
	cal    *Calendar
	store  Store
	logger *slog.Logger
}

// NewCached wraps cal with store.
func NewCached(cal *Calendar, store Store, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{cal: cal, store: store, logger: logger}
}

// ReadingIndex returns the cached reading for day, computing and storing it on a miss.
func (c *Cached) ReadingIndex(ctx context.Context, day calendar.Day) (Parsha, error) {
	row, err := c.store.GetReading(ctx, day.String(), c.cal.InIsrael())
	switch {
	case err == nil:
		p := Parsha(row.Parsha)
		if !p.IsValid() {
			return NONE, fmt.Errorf("cached reading %d for %s: %w", row.Parsha, day, ErrUnknownReading)
		}
		metrics.IncLookup(metrics.ServiceLiturgy, metrics.SourceCache)
		return p, nil
	case !database.IsNotFound(err):
		return NONE, fmt.Errorf("read cached reading: %w", err)
	}

	p, err := c.cal.ReadingIndex(ctx, day)
	if err != nil {
		return NONE, err
	}
	metrics.IncLookup(metrics.ServiceLiturgy, metrics.SourceComputed)

	row = &database.ReadingRow{Date: day.String(), InIsrael: c.cal.InIsrael(), Parsha: int(p)}
	if err := c.store.UpsertReading(ctx, row); err != nil {
		c.logger.Warn("failed to cache reading",
			slog.String("date", row.Date),
			slog.Any("error", err),
		)
	}

	return p, nil
}
