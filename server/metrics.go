package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors of one server. They are not
// registered anywhere until Register is called.
type Metrics struct {
	posted   prometheus.Counter
	executed *prometheus.CounterVec
	views    *prometheus.CounterVec
	pending  prometheus.Gauge
	duration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		posted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wasp_requests_posted_total",
			Help: "Total number of requests accepted by the host.",
		}),
		executed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wasp_requests_executed_total",
			Help: "Total number of executed requests by outcome.",
		}, []string{"outcome"}),
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wasp_view_calls_total",
			Help: "Total number of view calls by outcome.",
		}, []string{"outcome"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wasp_requests_pending",
			Help: "Number of accepted requests waiting to execute.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wasp_request_duration_seconds",
			Help:    "Duration of request execution.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Register adds the collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.posted, m.executed, m.views, m.pending, m.duration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}

func (m *Metrics) observeExecuted(start time.Time, err error) {
	m.duration.Observe(time.Since(start).Seconds())
	m.executed.WithLabelValues(outcome(err)).Inc()
}
