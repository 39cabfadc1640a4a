// Package metrics exposes solver activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
)

// Solve outcomes.
const (
	OutcomeResolved   = "resolved"
	OutcomeUnresolved = "unresolved"
	OutcomeCanceled   = "canceled"
)

// Collector records solver metrics on its own registry.
//
// Metrics:
//   - <ns>_solves_total: finished solves by outcome
//   - <ns>_rule_firings_total: rule applications by rule name
//   - <ns>_unresolved_targets_total: requested targets left underived
//   - <ns>_solve_duration_seconds: wall time per solve
type Collector struct {
	registry *prometheus.Registry

	solvesTotal     *prometheus.CounterVec
	ruleFirings     *prometheus.CounterVec
	unresolvedTotal *prometheus.CounterVec
	solveDuration   prometheus.Histogram
}

// NewCollector creates and registers the solver metrics. A nil registry
// gets a fresh one.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "rectsolve"
	}

	c := &Collector{
		registry: registry,
		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solves_total",
				Help:      "Total number of finished solve sessions",
			},
			[]string{"outcome"},
		),
		ruleFirings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rule_firings_total",
				Help:      "Total number of derivation rule applications",
			},
			[]string{"rule"},
		),
		unresolvedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unresolved_targets_total",
				Help:      "Total number of requested targets that could not be derived",
			},
			[]string{"target"},
		),
		solveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "Duration of solve sessions in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
		),
	}

	registry.MustRegister(c.solvesTotal, c.ruleFirings, c.unresolvedTotal, c.solveDuration)
	return c
}

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// RecordSolve records one finished solve.
func (c *Collector) RecordSolve(outcome string, fired []string, unresolved []rect.Target, d time.Duration) {
	if c == nil {
		return
	}
	c.solvesTotal.WithLabelValues(outcome).Inc()
	for _, rule := range fired {
		c.ruleFirings.WithLabelValues(rule).Inc()
	}
	for _, t := range unresolved {
		c.unresolvedTotal.WithLabelValues(t.String()).Inc()
	}
	c.solveDuration.Observe(d.Seconds())
}

// WriteText writes every gathered family in the Prometheus text format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
