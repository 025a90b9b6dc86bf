// Package app wires configuration to the schedule services for the commands.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zapponejosh/zmanim-schedule/internal/astronomy"
	"github.com/zapponejosh/zmanim-schedule/internal/config"
	"github.com/zapponejosh/zmanim-schedule/internal/database"
	"github.com/zapponejosh/zmanim-schedule/internal/liturgy"
	"github.com/zapponejosh/zmanim-schedule/internal/schedule"
	"github.com/zapponejosh/zmanim-schedule/internal/zmanim"
)

// App holds the services built from one configuration.
type App struct {
	Astronomy astronomy.Service
	Liturgy   liturgy.Service
	Generator *schedule.Generator
	DB        *database.DB // nil when the cache is disabled
}

// New builds the services described by cfg. With DATABASE_PATH set it opens
// and migrates the cache and puts it in front of both services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	calc := astronomy.NewCalculator(cfg.Astronomy())
	cal := liturgy.NewCalendar(cfg.InIsrael)

	a := &App{Astronomy: calc, Liturgy: cal}

	if cfg.CacheEnabled() {
		db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), logger)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}

		applied, err := db.Migrate(ctx)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate cache: %w", err)
		}
		logger.Debug("cache ready",
			slog.String("path", cfg.DatabasePath),
			slog.Int("migrations_applied", applied),
		)

		a.DB = db
		a.Astronomy = astronomy.NewCached(calc, db, logger)
		a.Liturgy = liturgy.NewCached(cal, db, logger)
	}

	a.Generator = schedule.NewGenerator(zmanim.NewCalculator(a.Astronomy, a.Liturgy), logger)
	return a, nil
}

// Close releases the cache database, if any.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
