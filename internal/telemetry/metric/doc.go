// Package metric provides Prometheus metrics for vfsnap.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry, recording helpers, HTTP handler
//   - collector.go: scrape-time collector for backend storage statistics
//
// Metrics include:
//
//   - Snapshot capture/restore counters and snapshot count gauge
//   - Per-tool call counters, error counters, and duration histograms
//   - Storage statistics (files, directories, bytes)
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
