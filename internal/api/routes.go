package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/zmanim-schedule/internal/config"
	"github.com/zapponejosh/zmanim-schedule/internal/metrics"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health                   liveness and cache ping
//	GET    /metrics                  prometheus exposition
//	GET    /api/v1/schedule          schedule lines as JSON
//	GET    /api/v1/schedule.txt      schedule in the printed format
//	GET    /api/v1/zmanim/{date}     sun times for one date
//	GET    /api/v1/admin/cache       cache row counts (admin key)
//	DELETE /api/v1/admin/cache       purge cached days before ?before= (admin key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RequestIDMiddleware(),
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		MetricsMiddleware(),
		CORSMiddleware(),
	)

	r.Get("/health", handlers.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/schedule", handlers.GetSchedule)
		r.Get("/schedule.txt", handlers.GetScheduleText)
		r.Get("/zmanim/{date}", handlers.GetZmanim)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminOnlyMiddleware(cfg, logger))
			r.Get("/cache", handlers.GetCacheStats)
			r.Delete("/cache", handlers.PurgeCache)
		})
	})

	return r
}
