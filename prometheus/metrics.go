package prometheus

import (
	"sync"

	"pizzeria-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.CounterVec

	// Menu resolver metrics
	MenuMergeCounter         prometheus.CounterVec
	OverrideWriteCounter     prometheus.CounterVec
	PropagationCounter       prometheus.Counter
	OverrideConflictsCounter prometheus.Counter

	// Order metrics
	OrderOperationsCounter prometheus.CounterVec

	// Subscription metrics
	ActiveSubscriptionsGauge prometheus.Gauge

	initOnce sync.Once
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	initOnce.Do(func() {
		// Use metric prefix from configuration
		prefix := config.Metrics.Prefix

		// HTTP request metrics
		HttpRequestsTotal = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		// HTTP request duration
		HttpRequestDuration = *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		// Authentication metrics
		AuthAttemptsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Total number of authentication attempts",
			},
		)

		AuthErrorsCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_errors_total",
				Help: "Total number of authentication errors",
			},
			[]string{"reason"},
		)

		// Menu merge metrics
		MenuMergeCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_menu_merges_total",
				Help: "Total number of effective menu resolutions",
			},
			[]string{"tenant_type"},
		)

		// Override writer metrics
		OverrideWriteCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_override_writes_total",
				Help: "Total number of override writer operations",
			},
			[]string{"operation"},
		)

		// Template propagation metrics
		PropagationCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_propagations_total",
				Help: "Total number of template propagations to new tenants",
			},
		)

		// Override integrity metrics
		OverrideConflictsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_override_conflicts_total",
				Help: "Total number of duplicate override pairs observed",
			},
		)

		// Order metrics
		OrderOperationsCounter = *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_order_operations_total",
				Help: "Total number of order operations",
			},
			[]string{"operation"},
		)

		// Subscription metrics
		ActiveSubscriptionsGauge = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_active_subscriptions",
				Help: "Number of active change-stream subscriptions",
			},
		)
	})
}

// RecordAuthError increments the counter for a failed authentication
func RecordAuthError(reason string) {
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordMenuMerge increments the counter for effective menu resolutions
func RecordMenuMerge(tenantType string) {
	MenuMergeCounter.WithLabelValues(tenantType).Inc()
}

// RecordOverrideWrite increments the counter for override writer operations
func RecordOverrideWrite(operation string) {
	OverrideWriteCounter.WithLabelValues(operation).Inc()
}

// RecordOrderOperation increments the counter for order operations
func RecordOrderOperation(operation string) {
	OrderOperationsCounter.WithLabelValues(operation).Inc()
}
