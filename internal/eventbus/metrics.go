package eventbus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects hub counters. A nil *Metrics records nothing.
type Metrics struct {
	emissions   *prometheus.CounterVec
	deliveries  *prometheus.CounterVec
	failures    *prometheus.CounterVec
	subscribers *prometheus.GaugeVec
}

// NewMetrics registers the hub metrics with registry.
// If registry is nil, uses the default Prometheus registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		emissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventbus_emissions_total",
				Help: "Total number of emissions per topic that reached at least one subscriber",
			},
			[]string{"topic"},
		),
		deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventbus_deliveries_total",
				Help: "Total number of subscriber invocations per topic",
			},
			[]string{"topic"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventbus_subscriber_failures_total",
				Help: "Total number of subscriber invocations that returned an error or panicked",
			},
			[]string{"topic"},
		),
		subscribers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "eventbus_subscribers",
				Help: "Current number of registrations per topic",
			},
			[]string{"topic"},
		),
	}
}

func (m *Metrics) emitted(topic string) {
	if m != nil {
		m.emissions.WithLabelValues(topic).Inc()
	}
}

func (m *Metrics) delivered(topic string) {
	if m != nil {
		m.deliveries.WithLabelValues(topic).Inc()
	}
}

func (m *Metrics) failed(topic string) {
	if m != nil {
		m.failures.WithLabelValues(topic).Inc()
	}
}

func (m *Metrics) setSubscribers(topic string, n int) {
	if m != nil {
		m.subscribers.WithLabelValues(topic).Set(float64(n))
	}
}
