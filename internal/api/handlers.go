package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/zmanim-schedule/internal/astronomy"
	"github.com/zapponejosh/zmanim-schedule/internal/calendar"
	"github.com/zapponejosh/zmanim-schedule/internal/config"
	"github.com/zapponejosh/zmanim-schedule/internal/database"
	"github.com/zapponejosh/zmanim-schedule/internal/logger"
	"github.com/zapponejosh/zmanim-schedule/internal/zmanim"
)

// MaxRangeDays caps how many days one schedule request may span.
const MaxRangeDays = 731

// ScheduleSource builds schedule lines. *schedule.Generator satisfies it.
type ScheduleSource interface {
	Lines(ctx context.Context, start, end calendar.Day) ([]zmanim.ScheduleLine, error)
	Print(ctx context.Context, w io.Writer, start, end calendar.Day) error
}

// CacheStore is the part of the cache database the admin endpoints use.
// *database.DB satisfies it.
type CacheStore interface {
	Health(ctx context.Context) error
	GetCacheStats(ctx context.Context) (*database.CacheStats, error)
	PurgeSnapshots(ctx context.Context, before string) (int64, error)
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	schedule ScheduleSource
	astro    astronomy.Service
	cache    CacheStore // nil when the cache is disabled
	cfg      *config.Config
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance. cache may be nil.
func NewHandlers(schedule ScheduleSource, astro astronomy.Service, cache CacheStore, cfg *config.Config, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		schedule: schedule,
		astro:    astro,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}
}

// ScheduleResponse is the body of GET /api/v1/schedule.
type ScheduleResponse struct {
	Start calendar.Day          `json:"start"`
	End   calendar.Day          `json:"end"`
	Lines []zmanim.ScheduleLine `json:"lines"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "healthy", "cache": "disabled"}

	if h.cache != nil {
		if err := h.cache.Health(r.Context()); err != nil {
			h.log(r).Warn("health check failed", slog.Any("error", err))
			WriteError(w, http.StatusServiceUnavailable, "Cache database unhealthy", CodeUnhealthy)
			return
		}
		status["cache"] = "enabled"
	}

	WriteSuccess(w, status)
}

// GetSchedule handles GET /api/v1/schedule?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	lines, err := h.schedule.Lines(r.Context(), start, end)
	if err != nil {
		h.writeScheduleError(w, r, err)
		return
	}

	WriteSuccess(w, ScheduleResponse{Start: start, End: end, Lines: lines})
}

// GetScheduleText handles GET /api/v1/schedule.txt
//
// The body is buffered so a failed lookup still yields a clean error response.
func (h *Handlers) GetScheduleText(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.schedule.Print(r.Context(), &buf, start, end); err != nil {
		h.writeScheduleError(w, r, err)
		return
	}

	WriteText(w, http.StatusOK, buf.Bytes())
}

// GetZmanim handles GET /api/v1/zmanim/{date}
func (h *Handlers) GetZmanim(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")

	day, err := calendar.ParseDay(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	snap, err := h.astro.Zmanim(r.Context(), day)
	if err != nil {
		if errors.Is(err, astronomy.ErrNoSunriseSunset) {
			WriteError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("No sunrise or sunset on %s at the configured location", day), CodeNoSunrise)
			return
		}
		h.log(r).Error("failed to get zmanim",
			slog.String("date", dateStr),
			slog.Any("error", err),
		)
		WriteInternalError(w, "Failed to compute zmanim")
		return
	}

	WriteSuccess(w, snap)
}

// GetCacheStats handles GET /api/v1/admin/cache
func (h *Handlers) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		WriteError(w, http.StatusNotFound, "Cache is not enabled", CodeCacheDisabled)
		return
	}

	stats, err := h.cache.GetCacheStats(r.Context())
	if err != nil {
		h.log(r).Error("failed to get cache stats", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve cache stats")
		return
	}

	WriteSuccess(w, stats)
}

// PurgeCache handles DELETE /api/v1/admin/cache?before=YYYY-MM-DD
func (h *Handlers) PurgeCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		WriteError(w, http.StatusNotFound, "Cache is not enabled", CodeCacheDisabled)
		return
	}

	beforeStr := r.URL.Query().Get("before")
	if beforeStr == "" {
		WriteBadRequest(w, "before parameter is required")
		return
	}
	before, err := calendar.ParseDay(beforeStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid before date: %s. Use YYYY-MM-DD", beforeStr))
		return
	}

	removed, err := h.cache.PurgeSnapshots(r.Context(), before.String())
	if err != nil {
		h.log(r).Error("failed to purge cache",
			slog.String("before", before.String()),
			slog.Any("error", err),
		)
		WriteInternalError(w, "Failed to purge cache")
		return
	}

	h.log(r).Info("cache purged",
		slog.String("before", before.String()),
		slog.Int64("snapshots_removed", removed),
	)

	WriteSuccess(w, map[string]any{
		"before":            before,
		"snapshots_removed": removed,
	})
}

// parseRange reads ?start and ?end, each defaulting to the configured window.
// ?align=true moves start back to its Sunday so the first week is whole.
// An end before start is allowed and yields an empty schedule.
func (h *Handlers) parseRange(w http.ResponseWriter, r *http.Request) (calendar.Day, calendar.Day, bool) {
	start, end := h.cfg.Window()

	if s := r.URL.Query().Get("start"); s != "" {
		d, err := calendar.ParseDay(s)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", s))
			return calendar.Day{}, calendar.Day{}, false
		}
		start = d
	}

	if s := r.URL.Query().Get("end"); s != "" {
		d, err := calendar.ParseDay(s)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", s))
			return calendar.Day{}, calendar.Day{}, false
		}
		end = d
	}

	if s := r.URL.Query().Get("align"); s != "" {
		align, err := strconv.ParseBool(s)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid align value: %s", s))
			return calendar.Day{}, calendar.Day{}, false
		}
		if align {
			start = calendar.AlignToWeek(start)
		}
	}

	if end.Sub(start) > MaxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", MaxRangeDays))
		return calendar.Day{}, calendar.Day{}, false
	}

	return start, end, true
}

func (h *Handlers) writeScheduleError(w http.ResponseWriter, r *http.Request, err error) {
	h.log(r).Error("failed to build schedule", slog.Any("error", err))

	var lerr *zmanim.LookupError
	if errors.As(err, &lerr) {
		WriteError(w, http.StatusInternalServerError,
			fmt.Sprintf("%s lookup failed for %s", lerr.Service, lerr.Day), CodeLookupFailed)
		return
	}

	WriteInternalError(w, "Failed to build schedule")
}

func (h *Handlers) log(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context(), h.logger)
}
