package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StorageOperations cuenta operaciones contra el document store.
	// result: ok | not_found | error | swallowed (lectura fallida devuelta como vacío).
	StorageOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nyanpass", Name: "storage_operations_total", Help: "Document store operations by entity, op and result."},
		[]string{"entity", "op", "result"},
	)
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nyanpass", Name: "auth_failures_total", Help: "Auth provider failures by operation and code."},
		[]string{"op", "code"},
	)
	AnalyticsEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nyanpass", Name: "analytics_events_total", Help: "Tracked analytics events by name."},
		[]string{"event"},
	)
	RateLimitRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "nyanpass", Name: "rate_limit_rejected_total", Help: "Requests rejected by the per-client rate limiter."},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "nyanpass", Name: "http_requests_total", Help: "HTTP requests by method and status class."},
		[]string{"method", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(StorageOperations)
	reg.MustRegister(AuthFailures)
	reg.MustRegister(AnalyticsEvents)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(HTTPRequests)
}
