// Package metrics exposes what the dashboard last saw as Prometheus series.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "statusboard"

// Metrics holds the dashboard collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	serviceUp    *prometheus.GaugeVec
	responseTime *prometheus.GaugeVec
	fetchErrors  *prometheus.CounterVec
	refreshes    prometheus.Counter
	wsClients    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "service_up",
			Help:      "Last reported status per service: 1 up, 0 down, -1 unknown or other.",
		}, []string{"slug"}),
		responseTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "service_response_time_ms",
			Help:      "Last reported response time per service in milliseconds.",
		}, []string{"slug"}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Artifacts that could not be read, by service and artifact.",
		}, []string{"slug", "artifact"}),
		refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Completed dashboard refresh cycles.",
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected websocket clients.",
		}),
	}
	reg.MustRegister(m.serviceUp, m.responseTime, m.fetchErrors, m.refreshes, m.wsClients)
	return m
}

// ObserveService records the status and, when known, the response time.
func (m *Metrics) ObserveService(slug, status string, responseTime *float64) {
	if m == nil {
		return
	}
	v := -1.0
	switch status {
	case "up":
		v = 1
	case "down":
		v = 0
	}
	m.serviceUp.WithLabelValues(slug).Set(v)
	if responseTime != nil {
		m.responseTime.WithLabelValues(slug).Set(*responseTime)
	} else {
		m.responseTime.DeleteLabelValues(slug)
	}
}

// FetchFailed counts one unreadable artifact.
func (m *Metrics) FetchFailed(slug, artifact string) {
	if m == nil {
		return
	}
	m.fetchErrors.WithLabelValues(slug, artifact).Inc()
}

func (m *Metrics) Refreshed() {
	if m == nil {
		return
	}
	m.refreshes.Inc()
}

// SetClients sets the number of connected websocket clients.
func (m *Metrics) SetClients(n int) {
	if m == nil {
		return
	}
	m.wsClients.Set(float64(n))
}
