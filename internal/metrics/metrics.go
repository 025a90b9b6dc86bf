// Package metrics holds the prometheus collectors for schedule generation
// and the HTTP API.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zmanim_schedule"

// Services that resolve dates.
const (
	ServiceAstronomy = "astronomy"
	ServiceLiturgy   = "liturgy"
)

// Lookup sources.
const (
	SourceCache    = "cache"
	SourceComputed = "computed"
)

var (
	once sync.Once

	weeksGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weeks_generated_total",
			Help:      "Count of schedule lines built.",
		},
	)

	lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_lookups_total",
			Help:      "Count of astronomy and liturgy lookups by source.",
		},
		[]string{"service", "source"},
	)

	lookupFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_lookup_failures_total",
			Help:      "Count of lookups that aborted a schedule run.",
		},
		[]string{"service"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(weeksGenerated, lookups, lookupFailures, httpRequests, httpDuration)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func IncWeeksGenerated() {
	weeksGenerated.Inc()
}

func IncLookup(service, source string) {
	lookups.WithLabelValues(service, source).Inc()
}

func IncLookupFailure(service string) {
	lookupFailures.WithLabelValues(service).Inc()
}

// ObserveRequest records one HTTP request.
func ObserveRequest(method, route, status string, seconds float64) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}
