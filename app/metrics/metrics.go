// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_http_requests_total",
		Help: "HTTP requests by route template, method and status code",
	}, []string{"route", "method", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_http_request_duration_seconds",
		Help:    "HTTP request latency by route template and method",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_auth_events_total",
		Help: "Registration, login and logout attempts by outcome",
	}, []string{"event", "outcome"})
)

// Auth event names.
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventLogout   = "logout"
)

// RecordAuth counts one auth event. outcome is "success" or a short failure reason.
func RecordAuth(event, outcome string) {
	AuthEvents.WithLabelValues(event, outcome).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
