package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts calculations served by the API.
type Metrics struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	rejected     *prometheus.CounterVec
}

// NewMetrics registers the API collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dosimetry",
			Name:      "calculations_total",
			Help:      "Calculations computed, by kind.",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dosimetry",
			Name:      "rejected_requests_total",
			Help:      "Calculation requests rejected as invalid, by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.calculations, m.rejected)
	return m
}

func (m *Metrics) observe(kind string) { m.calculations.WithLabelValues(kind).Inc() }
func (m *Metrics) reject(kind string) { m.rejected.WithLabelValues(kind).Inc() }

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
