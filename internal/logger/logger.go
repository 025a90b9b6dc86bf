// Package logger provides structured logging using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"

	"github.com/zapponejosh/zmanim-schedule/internal/config"
)

type contextKey string

// RequestIDKey is the context key for request IDs.
const RequestIDKey contextKey = "request_id"

// Setup builds the logger described by cfg, writing to w, and installs it
// as the slog default. The CLI passes stderr so stdout carries only the schedule.
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler).With(
		slog.String("env", cfg.Env),
	)
	slog.SetDefault(logger)

	return logger
}

// ParseLevel converts a config log level to slog.Level. Unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID stores a request ID in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID extracts the request ID from ctx.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns base tagged with the request ID in ctx, if any.
// A nil base means the default logger.
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if requestID := RequestID(ctx); requestID != "" {
		return base.With(slog.String("request_id", requestID))
	}
	return base
}
