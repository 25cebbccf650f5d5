// Package metrics exposes Prometheus counters for email delivery and
// rejected requests.
//
// Every Metrics value owns its own registry, so several servers (tests)
// can live in one process without duplicate registration panics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "museum_mailer"

// Send outcomes.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

// Metrics holds the service's Prometheus collectors.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	EmailsSent       *prometheus.CounterVec
	SendDuration     *prometheus.HistogramVec
	RequestsRejected *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		EmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Provider send attempts by template and outcome.",
		}, []string{"template", "outcome"}),
		SendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "send_duration_seconds",
			Help:      "Duration of provider send calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"template"}),
		RequestsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_rejected_total",
			Help:      "Requests answered with an error, by error code.",
		}, []string{"code"}),
	}
}

// ObserveSend records one provider call.
func (m *Metrics) ObserveSend(template, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.EmailsSent.WithLabelValues(template, outcome).Inc()
	m.SendDuration.WithLabelValues(template).Observe(d.Seconds())
}

// ObserveRejection records a request answered with an error code.
func (m *Metrics) ObserveRejection(code string) {
	if m == nil {
		return
	}
	m.RequestsRejected.WithLabelValues(code).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
