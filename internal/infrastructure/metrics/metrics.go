// Package metrics defines and registers the Prometheus metrics of the taskx
// client. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default registry on package init via
// promauto; the web front exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskx"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts backend calls that produced an HTTP response.
// Labels:
//   - method: HTTP method (e.g. "GET", "POST")
//   - code: response status code as a string, or "transport_error"
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Total number of backend requests, by method and status code.",
	},
	[]string{"method", "code"},
)

// GatewayRequestDuration measures the time from sending a request to having
// read its full response.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Duration of backend requests including body read.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// GatewayUnauthorizedTotal counts 401 responses that purged the credential.
var GatewayUnauthorizedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "unauthorized_total",
		Help:      "Total number of 401 responses that cleared the session.",
	},
)

// ── Session guard metrics ─────────────────────────────────────────────────────

// GuardRedirectsTotal counts page entries refused for lack of a credential.
// Label:
//   - front: "cli" or "web"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "guard",
		Name:      "redirects_total",
		Help:      "Total number of protected page entries redirected to login.",
	},
	[]string{"front"},
)
