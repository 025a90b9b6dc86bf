// Package schedule runs the weekly partitioner and the offset calculator
// over a date range.
package schedule

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/zapponejosh/zmanim-schedule/internal/calendar"
	"github.com/zapponejosh/zmanim-schedule/internal/metrics"
	"github.com/zapponejosh/zmanim-schedule/internal/zmanim"
)

// LineBuilder builds the schedule line for one week.
// *zmanim.Calculator satisfies it.
type LineBuilder interface {
	BuildScheduleLine(ctx context.Context, week calendar.Week) (zmanim.ScheduleLine, error)
}

// Generator produces the schedule for a range of dates.
type Generator struct {
	builder LineBuilder
	logger  *slog.Logger
}

// NewGenerator creates a generator.
func NewGenerator(builder LineBuilder, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{builder: builder, logger: logger}
}

// Each partitions start..end and calls emit with each week's line as soon as
// it is built. The first lookup or emit error stops the run.
func (g *Generator) Each(ctx context.Context, start, end calendar.Day, emit func(zmanim.ScheduleLine) error) error {
	if end.Before(start) {
		g.logger.WarnContext(ctx, "empty schedule range",
			slog.String("start", start.String()),
			slog.String("end", end.String()),
		)
		return nil
	}

	weeks := calendar.Partition(start, end)
	g.logger.DebugContext(ctx, "partitioned range",
		slog.String("start", start.String()),
		slog.String("end", end.String()),
		slog.Int("weeks", len(weeks)),
	)

	for _, week := range weeks {
		line, err := g.builder.BuildScheduleLine(ctx, week)
		if err != nil {
			return fmt.Errorf("week %s: %w", week.Label, err)
		}
		metrics.IncWeeksGenerated()

		if err := emit(line); err != nil {
			return err
		}
	}

	return nil
}

// Lines returns every line for start..end.
func (g *Generator) Lines(ctx context.Context, start, end calendar.Day) ([]zmanim.ScheduleLine, error) {
	lines := []zmanim.ScheduleLine{}

	err := g.Each(ctx, start, end, func(line zmanim.ScheduleLine) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return lines, nil
}

// Print writes each line followed by the separator.
func (g *Generator) Print(ctx context.Context, w io.Writer, start, end calendar.Day) error {
	return g.Each(ctx, start, end, func(line zmanim.ScheduleLine) error {
		if _, err := fmt.Fprintf(w, "%s\n%s\n", line, zmanim.Separator); err != nil {
			return fmt.Errorf("write schedule line: %w", err)
		}
		return nil
	})
}
