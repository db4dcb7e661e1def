package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_search_duration_seconds",
			Help:    "Duration of storefront searches including hydration",
			Buckets: prometheus.DefBuckets,
		},
	)

	adminOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_admin_operations_total",
			Help: "Admin write operations by entity, operation and status",
		},
		[]string{"entity", "operation", "status"},
	)

	riskChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_risk_checks_total",
			Help: "Payment risk checks by result",
		},
		[]string{"result"},
	)

	invalidationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_cache_invalidation_duration_seconds",
			Help:    "Duration of cache invalidations by catalog event type",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event"},
	)
)

func observeAdmin(entity, operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	adminOperations.WithLabelValues(entity, operation, status).Inc()
}
