// Package metric provides Prometheus metrics for vfsnap.
package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// namespace prefixes every metric this package owns.
const namespace = "vfsnap"

// Registry holds all application metrics on a dedicated Prometheus
// registry. Backend-owned metrics (the badger gauges) register themselves
// on the same underlying registry via Prometheus().
type Registry struct {
	registry *prometheus.Registry

	// Snapshot engine metrics.
	SnapshotCount prometheus.Gauge
	Captures      prometheus.Counter
	Restores      prometheus.Counter
	FilesCaptured prometheus.Counter
	FilesRestored prometheus.Counter

	// Tool surface metrics.
	ToolCalls    *prometheus.CounterVec
	ToolErrors   *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with all application metrics plus the
// standard Go runtime and process collectors.
func NewRegistry() *Registry {
	registry := prometheus.NewRegistry()

	r := &Registry{
		registry: registry,

		SnapshotCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "count",
			Help:      "Number of snapshots currently held in the index.",
		}),
		Captures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "captures_total",
			Help:      "Total number of snapshot captures.",
		}),
		Restores: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "restores_total",
			Help:      "Total number of snapshot restores.",
		}),
		FilesCaptured: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "files_captured_total",
			Help:      "Total number of files recorded across all captures.",
		}),
		FilesRestored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "files_restored_total",
			Help:      "Total number of files written back across all restores.",
		}),

		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tool",
			Name:      "calls_total",
			Help:      "Total tool invocations by tool name.",
		}, []string{"tool"}),
		ToolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tool",
			Name:      "errors_total",
			Help:      "Total failed tool invocations by tool name and error code.",
		}, []string{"tool", "code"}),
		ToolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tool",
			Name:      "duration_seconds",
			Help:      "Tool invocation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.SnapshotCount,
		r.Captures,
		r.Restores,
		r.FilesCaptured,
		r.FilesRestored,
		r.ToolCalls,
		r.ToolErrors,
		r.ToolDuration,
	)

	return r
}

// RecordCapture counts one capture and the files it recorded.
func (r *Registry) RecordCapture(files int) {
	r.Captures.Inc()
	r.FilesCaptured.Add(float64(files))
}

// RecordRestore counts one restore and the files it wrote back.
func (r *Registry) RecordRestore(written int) {
	r.Restores.Inc()
	r.FilesRestored.Add(float64(written))
}

// SetSnapshotCount sets the current snapshot index size.
func (r *Registry) SetSnapshotCount(n int) {
	r.SnapshotCount.Set(float64(n))
}

// RecordToolCall counts one tool invocation and observes its duration.
func (r *Registry) RecordToolCall(tool string, seconds float64) {
	r.ToolCalls.WithLabelValues(tool).Inc()
	r.ToolDuration.WithLabelValues(tool).Observe(seconds)
}

// RecordToolError counts one failed tool invocation.
func (r *Registry) RecordToolError(tool, code string) {
	r.ToolErrors.WithLabelValues(tool, code).Inc()
}

// RegisterStats exports live storage statistics from source on scrape.
// Returns the registry for chaining.
func (r *Registry) RegisterStats(source StatsSource) *Registry {
	r.registry.MustRegister(NewStatsCollector(source))
	return r
}

// Prometheus returns the underlying registry for components that register
// their own collectors (badgerfs gauges).
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// Handler returns an HTTP handler serving this registry's metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry, created on first use.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns an HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}
