// Package metrics tracks parsing and rendering throughput for tabula using
// Prometheus collectors.
//
// Each Collector owns its registry so several collectors (one per command, or
// one per test) never clash on metric names:
//
//	c := metrics.NewCollector("table")
//	parser := csvparse.New(builder, csvparse.WithMetrics(c))
//	...
//	_ = c.WriteText(os.Stderr)
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "tabula"

// Collector groups the counters and histograms of one component
type Collector struct {
	name      string
	registry  *prometheus.Registry
	rowsRead  *prometheus.CounterVec   // rows decoded into records
	failures  *prometheus.CounterVec   // parse failures by error type
	duration  *prometheus.HistogramVec // wall time of a whole parse
	rowsDrawn *prometheus.CounterVec   // rows handed to a table formatter
	startTime time.Time
}

// NewCollector creates a collector labelled with the component name
func NewCollector(name string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		name:     name,
		registry: reg,
		rowsRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_parsed_total",
				Help:      "Total number of data rows decoded into records",
			},
			[]string{"component"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_failures_total",
				Help:      "Total number of aborted parses",
			},
			[]string{"component", "type"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parse_duration_seconds",
				Help:      "Time spent parsing one source",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"component"},
		),
		rowsDrawn: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_rendered_total",
				Help:      "Total number of rows rendered by table formatters",
			},
			[]string{"component", "format"},
		),
		startTime: time.Now(),
	}
}

// Name returns the component name
func (c *Collector) Name() string { return c.name }

// Registry exposes the underlying registry, e.g. for promhttp
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// RowsParsed adds n decoded rows
func (c *Collector) RowsParsed(n int) {
	c.rowsRead.WithLabelValues(c.name).Add(float64(n))
}

// ParseFailed counts an aborted parse of the given error type
func (c *Collector) ParseFailed(errType string) {
	c.failures.WithLabelValues(c.name, errType).Inc()
}

// ObserveParse records how long a parse took
func (c *Collector) ObserveParse(d time.Duration) {
	c.duration.WithLabelValues(c.name).Observe(d.Seconds())
}

// RowsRendered adds n rows rendered in the given format
func (c *Collector) RowsRendered(format string, n int) {
	c.rowsDrawn.WithLabelValues(c.name, format).Add(float64(n))
}

// GetAll returns a summary of the collector
func (c *Collector) GetAll() map[string]interface{} {
	return map[string]interface{}{
		"component":  c.name,
		"start_time": c.startTime,
		"uptime":     time.Since(c.startTime).Seconds(),
	}
}

// WriteText writes every gathered metric in the Prometheus text format
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
