package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess            = "success"
	OutcomeApplicationFailure = "application_failure"
	OutcomeTransportFailure   = "transport_failure"
)

var (
	backendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activityboard",
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Backend REST calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	backendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "activityboard",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Latency of backend REST calls until settlement.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	staleResponses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activityboard",
		Subsystem: "board",
		Name:      "stale_responses_total",
		Help:      "Catalog responses discarded because a newer load was issued.",
	})
	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "activityboard",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Boards currently held in the session registry.",
	})
)

func init() {
	prometheus.MustRegister(backendRequests, backendLatency, staleResponses, activeSessions)
}

// ObserveBackendCall records one settled backend request.
func ObserveBackendCall(operation, outcome string, elapsed time.Duration) {
	backendRequests.WithLabelValues(operation, outcome).Inc()
	backendLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func RecordStaleResponse() {
	staleResponses.Inc()
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
