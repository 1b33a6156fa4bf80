package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journal_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AIFallbacks counts AI operations answered with canned content.
	AIFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_ai_fallbacks_total",
			Help: "AI operations that fell back to static content",
		},
		[]string{"operation", "reason"},
	)

	BadgesAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_badges_awarded_total",
			Help: "Badges awarded by type",
		},
		[]string{"badge"},
	)

	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_rate_limited_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"scope"},
	)
)

// Init registers the collectors with the default registry. Call once.
func Init() {
	prometheus.MustRegister(RequestCount, RequestDuration, AIFallbacks, BadgesAwarded, RateLimited)
}
