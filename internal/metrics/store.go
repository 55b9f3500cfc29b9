package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partners_store_requests_total",
			Help: "Total number of requests sent to the remote partner store",
		},
		[]string{"operation", "outcome"},
	)

	storeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partners_store_request_duration_seconds",
			Help:    "Remote partner store request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// ObserveStoreCall records one remote store call.
func ObserveStoreCall(operation string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	storeRequestsTotal.WithLabelValues(operation, outcome).Inc()
	storeRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
