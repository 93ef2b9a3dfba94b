// Package metrics holds the Prometheus instruments for report resolution.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all report feature metrics.
type Metrics struct {
	ReportsGenerated *prometheus.CounterVec
	CacheHits        *prometheus.CounterVec
	CacheMisses      *prometheus.CounterVec
}

// New creates and registers the report metrics.
func New() *Metrics {
	return &Metrics{
		ReportsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spearow_reports_generated_total",
			Help: "Total reports generated, by report type and output format",
		}, []string{"type", "format"}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spearow_report_cache_hits_total",
			Help: "Report resolutions answered from the cache store",
		}, []string{"category"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spearow_report_cache_misses_total",
			Help: "Report resolutions that required a remote fetch",
		}, []string{"category"}),
	}
}

// ObserveResolution records one resolution outcome.
func (m *Metrics) ObserveResolution(category string, cacheHit bool) {
	if m == nil {
		return
	}
	if cacheHit {
		m.CacheHits.WithLabelValues(category).Inc()
	} else {
		m.CacheMisses.WithLabelValues(category).Inc()
	}
}

// ObserveReport records one generated report.
func (m *Metrics) ObserveReport(reportType, format string) {
	if m == nil {
		return
	}
	m.ReportsGenerated.WithLabelValues(reportType, format).Inc()
}
