package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for remote calls.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the collectors of one process.
type Metrics struct {
	RemoteRequests *prometheus.CounterVec
	RemoteDuration *prometheus.HistogramVec
	Sessions       prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the collectors with reg. A nil reg gets a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		RemoteRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wikiquiz_remote_requests_total",
				Help: "Total number of requests to the quiz service",
			},
			[]string{"endpoint", "outcome"},
		),
		RemoteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "wikiquiz_remote_request_duration_seconds",
				Help: "Duration of requests to the quiz service",
				// generation runs scraping and a model call
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 15, 30, 60},
			},
			[]string{"endpoint"},
		),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wikiquiz_shell_sessions",
			Help: "Number of open shell sessions",
		}),
	}
	reg.MustRegister(m.RemoteRequests, m.RemoteDuration, m.Sessions)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// ObserveRemote records one finished remote call.
func (m *Metrics) ObserveRemote(endpoint string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.RemoteRequests.WithLabelValues(endpoint, outcome).Inc()
	m.RemoteDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

// Handler serves the registry the collectors were registered with.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
