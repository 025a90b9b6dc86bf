// Command schedule prints the weekly zmanim schedule for the configured window.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/zapponejosh/zmanim-schedule/internal/app"
	"github.com/zapponejosh/zmanim-schedule/internal/config"
	"github.com/zapponejosh/zmanim-schedule/internal/logger"
	"github.com/zapponejosh/zmanim-schedule/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.Setup(cfg, os.Stderr)

	metrics.Register()

	if err := run(context.Background(), cfg, log, os.Stdout); err != nil {
		log.Error("schedule run aborted", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, w io.Writer) error {
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	start, end := cfg.Window()
	log.Debug("printing schedule",
		slog.String("start", start.String()),
		slog.String("end", end.String()),
	)

	return a.Generator.Print(ctx, w, start, end)
}
