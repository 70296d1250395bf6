package app

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts processed transactions by message path and result code.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	checked   *prometheus.CounterVec
	delivered *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	height    prometheus.Gauge
}

// NewMetrics creates the application collectors and registers them with
// given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "capcall",
			Subsystem: "app",
			Name:      "check_tx_total",
			Help:      "Total number of checked transactions.",
		}, []string{"path", "code"}),
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "capcall",
			Subsystem: "app",
			Name:      "deliver_tx_total",
			Help:      "Total number of delivered transactions.",
		}, []string{"path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "capcall",
			Subsystem: "app",
			Name:      "deliver_tx_seconds",
			Help:      "Time spent delivering a transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"path"}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "capcall",
			Subsystem: "app",
			Name:      "committed_height",
			Help:      "Height of the last committed block.",
		}),
	}
	reg.MustRegister(m.checked, m.delivered, m.duration, m.height)
	return m
}

// ObserveCheck records a CheckTx result.
func (m *Metrics) ObserveCheck(path string, code uint32) {
	if m == nil {
		return
	}
	m.checked.WithLabelValues(path, strconv.FormatUint(uint64(code), 10)).Inc()
}

// ObserveDeliver records a DeliverTx result and its processing time.
func (m *Metrics) ObserveDeliver(path string, code uint32, took time.Duration) {
	if m == nil {
		return
	}
	m.delivered.WithLabelValues(path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(path).Observe(took.Seconds())
}

// ObserveCommit records the height of a committed block.
func (m *Metrics) ObserveCommit(height int64) {
	if m == nil {
		return
	}
	m.height.Set(float64(height))
}
