package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/vmarena"
)

var _ vmarena.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements vmarena.MetricsCollector with Prometheus series.
type PrometheusCollector struct {
	reservedBytes  prometheus.Gauge
	committedBytes prometheus.Gauge
	arenas         prometheus.Gauge

	osCalls  *prometheus.CounterVec
	osErrors *prometheus.CounterVec

	allocs        prometheus.Counter
	allocBytes    prometheus.Counter
	paddingBytes  prometheus.Counter
	resets        prometheus.Counter
	discardedSize prometheus.Histogram

	leaks       prometheus.Counter
	leakedBytes prometheus.Counter
}

// NewPrometheusCollector registers the arena series with r under namespace.
func NewPrometheusCollector(r prometheus.Registerer, namespace string) *PrometheusCollector {
	return &PrometheusCollector{
		reservedBytes: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "arena_reserved_bytes",
			Help:      "Bytes of address space reserved by live arenas.",
		}),
		committedBytes: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "arena_committed_bytes",
			Help:      "Bytes of physical memory committed by live arenas.",
		}),
		arenas: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "arena_live",
			Help:      "Number of arenas holding a reservation.",
		}),
		osCalls: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_os_calls_total",
			Help:      "Virtual-memory calls made to the operating system.",
		}, []string{"op"}),
		osErrors: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_os_errors_total",
			Help:      "Virtual-memory calls that failed.",
		}, []string{"op"}),
		allocs: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_allocations_total",
			Help:      "Successful arena allocations.",
		}),
		allocBytes: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_allocated_bytes_total",
			Help:      "Bytes handed out by arena allocations.",
		}),
		paddingBytes: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_padding_bytes_total",
			Help:      "Bytes skipped for alignment.",
		}),
		resets: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_resets_total",
			Help:      "Arena resets.",
		}),
		discardedSize: promauto.With(r).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "arena_reset_live_bytes",
			Help:      "Live bytes discarded per reset.",
			Buckets:   prometheus.ExponentialBuckets(4096, 4, 10),
		}),
		leaks: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_leaks_total",
			Help:      "Arenas garbage collected without Close.",
		}),
		leakedBytes: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_leaked_bytes_total",
			Help:      "Reserved bytes of arenas garbage collected without Close.",
		}),
	}
}

func (c *PrometheusCollector) observeOS(op string, err error) {
	c.osCalls.WithLabelValues(op).Inc()
	if err != nil {
		c.osErrors.WithLabelValues(op).Inc()
	}
}

// RecordReserve implements vmarena.MetricsCollector.
func (c *PrometheusCollector) RecordReserve(bytes int, err error) {
	c.observeOS("reserve", err)
	if err != nil {
		return
	}
	c.arenas.Inc()
	c.reservedBytes.Add(float64(bytes))
}

// RecordCommit implements vmarena.MetricsCollector.
func (c *PrometheusCollector) RecordCommit(bytes int, err error) {
	c.observeOS("commit", err)
	if err != nil {
		return
	}
	c.committedBytes.Add(float64(bytes))
}

// RecordUncommit implements vmarena.MetricsCollector.
func (c *PrometheusCollector) RecordUncommit(bytes int, err error) {
	c.observeOS("uncommit", err)
	c.committedBytes.Sub(float64(bytes))
}

// RecordRelease implements vmarena.MetricsCollector.
func (c *PrometheusCollector) RecordRelease(reserved, committed int, err error) {
	c.observeOS("release", err)
	c.arenas.Dec()
	c.reservedBytes.Sub(float64(reserved))
	c.committedBytes.Sub(float64(committed))
}

// RecordAlloc implements vmarena.MetricsCollector.
func (c *PrometheusCollector) RecordAlloc(bytes, padding int) {
	c.allocs.Inc()
	c.allocBytes.Add(float64(bytes))
	c.paddingBytes.Add(float64(padding))
}

// RecordReset implements vmarena.MetricsCollector.
func (c *PrometheusCollector) RecordReset(live int) {
	c.resets.Inc()
	c.discardedSize.Observe(float64(live))
}

// RecordLeak implements vmarena.MetricsCollector.
// Leaked reservations stay mapped and keep counting as reserved.
func (c *PrometheusCollector) RecordLeak(reserved int) {
	c.leaks.Inc()
	c.leakedBytes.Add(float64(reserved))
}
