package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API usage
	JaspelRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jaspel_requests_total",
			Help: "Jaspel API calls by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: success, error, rate_limited
	)

	JaspelRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jaspel_request_duration_seconds",
			Help:    "Duration of guarded jaspel operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Cache efficiency
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jaspel_cache_hits_total",
			Help: "Read-through cache hits by operation",
		},
		[]string{"operation"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jaspel_cache_misses_total",
			Help: "Read-through cache misses by operation",
		},
		[]string{"operation"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jaspel_cache_invalidations_total",
			Help: "Keys removed by prefix invalidation",
		},
		[]string{"prefix"},
	)

	// Rate limiting
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jaspel_rate_limit_rejections_total",
			Help: "Requests rejected by the sliding window limiter",
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jaspel_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// Validation and workflow
	ValidationScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jaspel_validation_score",
			Help:    "Distribution of per-user validation scores",
			Buckets: []float64{0, 20, 40, 60, 80, 100},
		},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jaspel_status_transitions_total",
			Help: "Entries moved out of pending by target status",
		},
		[]string{"status"},
	)

	FlowComplianceScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jaspel_flow_compliance_score",
			Help: "Last computed data-flow compliance score",
		},
	)
)

func RecordRequest(endpoint string, success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	JaspelRequests.WithLabelValues(endpoint, outcome).Inc()
	JaspelRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func RecordRateLimited(endpoint string) {
	JaspelRequests.WithLabelValues(endpoint, "rate_limited").Inc()
	RateLimitRejections.WithLabelValues(endpoint).Inc()
}

func RecordCacheLookup(operation string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(operation).Inc()
		return
	}
	CacheMisses.WithLabelValues(operation).Inc()
}

func RecordInvalidation(prefix string, removed int) {
	CacheInvalidations.WithLabelValues(prefix).Add(float64(removed))
}

func RecordStatusTransitions(status string, count int64) {
	StatusTransitions.WithLabelValues(status).Add(float64(count))
}
