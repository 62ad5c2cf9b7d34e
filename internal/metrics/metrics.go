// Package metrics collects and exposes Prometheus metrics for OverSIP.
// The collector lives in the syslogger process, the single serializing
// observer of all log traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oversip/oversip/internal/version"
)

// Collector holds all OverSIP-specific Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	// Logging channel metrics.
	LogRecordsForwarded *prometheus.CounterVec
	LogRecordsDiscarded prometheus.Counter
	LogQueueDepth       prometheus.Gauge

	// Process-level metrics.
	SysloggerUptime prometheus.Gauge
	BuildInfo       *prometheus.GaugeVec
}

// New creates and registers all OverSIP metrics.
func New() *Collector {
	reg := prometheus.NewRegistry()

	// Register default Go runtime metrics.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &Collector{
		registry: reg,

		LogRecordsForwarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oversip_log_records_forwarded_total",
				Help: "Log records drained from the IPC queue into syslog, by level.",
			},
			[]string{"level"},
		),

		LogRecordsDiscarded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "oversip_log_records_discarded_total",
				Help: "Malformed log records discarded by the syslogger.",
			},
		),

		LogQueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "oversip_log_queue_depth",
				Help: "Messages currently waiting in the logging IPC queue.",
			},
		),

		SysloggerUptime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "oversip_syslogger_uptime_seconds",
				Help: "Uptime of the OverSIP syslogger process in seconds.",
			},
		),

		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "oversip_build_info",
				Help: "Build metadata; constant 1.",
			},
			[]string{"version", "commit"},
		),
	}

	reg.MustRegister(
		c.LogRecordsForwarded,
		c.LogRecordsDiscarded,
		c.LogQueueDepth,
		c.SysloggerUptime,
		c.BuildInfo,
	)

	c.BuildInfo.WithLabelValues(version.Version, version.Commit).Set(1)

	return c
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
