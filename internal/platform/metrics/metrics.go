// Package metrics holds the Prometheus collectors shared by all services.
// Collectors register with the default registry on import.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status_code", "service"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "service"},
	)

	// Skill dispatcher
	SkillRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_requests_total",
			Help: "Voice requests handled, by request kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	SkillPanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skill_panics_total",
			Help: "Panics recovered inside the dispatcher",
		},
	)

	SpeechTruncatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "speech_truncated_total",
			Help: "Report renderings that dropped trailing sections to fit the length budget",
		},
	)

	// Store
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Failed or undecodable store operations",
		},
		[]string{"op"},
	)

	// Feed refresh
	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Upstream feed fetches, by feed and result",
		},
		[]string{"feed", "result"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_refresh_duration_seconds",
			Help:    "Duration of a full refresh job",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// ObserveHTTP records one finished request.
func ObserveHTTP(service, method string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(status), service).Inc()
	HTTPRequestDuration.WithLabelValues(method, service).Observe(elapsed.Seconds())
}
