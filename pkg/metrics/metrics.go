package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Suggestion outcomes.
const (
	SuggestionProvider = "provider"
	SuggestionCache    = "cache"
	SuggestionFallback = "fallback"
)

// Metrics owns its registry so several instances can coexist (tests, workers).
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	SuggestionsTotal       *prometheus.CounterVec
	RemindersQueuedTotal   prometheus.Counter
	RateLimitRejectedTotal prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "birthday_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "birthday_http_request_duration_seconds",
			Help:    "Latency of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SuggestionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "birthday_suggestions_total",
			Help: "Suggestion responses by kind and source",
		}, []string{"kind", "source"}),
		RemindersQueuedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "birthday_reminders_queued_total",
			Help: "Reminder jobs published to the queue",
		}),
		RateLimitRejectedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "birthday_ratelimit_rejected_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

func (m *Metrics) ObserveRequest(method, route, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

func (m *Metrics) IncrementSuggestions(kind, source string) {
	if m == nil {
		return
	}
	m.SuggestionsTotal.WithLabelValues(kind, source).Inc()
}

func (m *Metrics) IncrementRemindersQueued() {
	if m == nil {
		return
	}
	m.RemindersQueuedTotal.Inc()
}

func (m *Metrics) IncrementRateLimitRejected() {
	if m == nil {
		return
	}
	m.RateLimitRejectedTotal.Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
