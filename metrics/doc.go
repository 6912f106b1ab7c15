// Package metrics exports arena metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.NewPrometheusCollector(reg, "myapp")
//
//	a, err := vmarena.New(vmarena.GiB, vmarena.WithMetricsCollector(collector))
//
// One collector may be shared by any number of arenas; the series are
// aggregated across them.
package metrics
