// Package main is the entry point for the zmanim schedule API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/zmanim-schedule/internal/api"
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

	log := logger.Setup(cfg, os.Stdout)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start, end := cfg.Window()
	log.Info("starting zmanim schedule API",
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("time_zone", cfg.TimeZone),
		slog.Float64("latitude", cfg.Latitude),
		slog.Float64("longitude", cfg.Longitude),
		slog.String("window", start.String()+".."+end.String()),
		slog.Bool("cache", cfg.CacheEnabled()),
	)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	metrics.Register()

	var cache api.CacheStore
	if a.DB != nil {
		cache = a.DB
	}
	handlers := api.NewHandlers(a.Generator, a.Astronomy, cache, cfg, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("zmanim schedule API ready", slog.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
