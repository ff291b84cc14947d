package taskqueue

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Counter and gauge updates are atomic and allocation free, so they are
// safe on the enqueue path used by the audio thread.
type metrics struct {
	enqueued     prometheus.Counter
	rejected     prometheus.Counter
	executed     prometheus.Counter
	failed       prometheus.Counter
	pending      prometheus.Gauge
	drainSeconds prometheus.Histogram
}

// newMetrics builds the collectors and registers them with reg when reg is
// not nil.
func newMetrics(reg prometheus.Registerer, namespace string) *metrics {
	m := &metrics{
		enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "main_thread_queue",
			Name:      "enqueued_total",
			Help:      "Tasks accepted by the main thread queue.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "main_thread_queue",
			Name:      "rejected_total",
			Help:      "Tasks rejected because the queue was full.",
		}),
		executed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "main_thread_queue",
			Name:      "executed_total",
			Help:      "Tasks executed on the main thread.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "main_thread_queue",
			Name:      "failed_total",
			Help:      "Tasks that returned an error or panicked.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "main_thread_queue",
			Name:      "pending",
			Help:      "Tasks waiting for their deadline after the last drain.",
		}),
		drainSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "main_thread_queue",
			Name:      "drain_duration_seconds",
			Help:      "Time spent in one drain, including task bodies.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}),
	}
	if reg != nil {
		reg.MustRegister(m.enqueued, m.rejected, m.executed, m.failed, m.pending, m.drainSeconds)
	}
	return m
}
