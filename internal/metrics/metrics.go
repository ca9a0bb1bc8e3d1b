package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agenda"

// Registry holds every metric exported on /metrics.
var Registry = prometheus.NewRegistry()

// AppInfo is always 1; build details live in the labels.
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Build information (always 1, details in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// HealthCheckStatus is 0 for fail and 1 for pass.
var HealthCheckStatus = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "health_check_status",
		Help:      "Result of the last health check run (0=fail, 1=pass)",
	},
	[]string{"check"},
)

var HealthCheckLatency = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "health_check_latency_ms",
		Help:      "Latency of the last health check run in milliseconds",
	},
	[]string{"check"},
)

// Mutations counts successful writes per resource and operation.
var Mutations = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Successful create, update and delete operations",
	},
	[]string{"resource", "operation"},
)

// RequestErrors counts handled request failures by error class.
var RequestErrors = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_errors_total",
		Help:      "Request failures by error class",
	},
	[]string{"class"},
)

var RateLimited = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	},
)

// Init registers runtime collectors and publishes build information.
// It must be called once per process.
func Init(version, commit, buildDate string) {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}

// RecordMutation is a shorthand used by handlers after a committed write.
func RecordMutation(resource, operation string) {
	Mutations.WithLabelValues(resource, operation).Inc()
}
