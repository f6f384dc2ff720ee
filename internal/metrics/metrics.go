// Package metrics records planning metrics with Prometheus. A one-shot CLI
// has nothing to scrape, so registries are flushed to a textfile for the
// node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Plan build outcomes
const (
	OutcomeOK         = "ok"
	OutcomeViolations = "violations"
	OutcomeFailed     = "failed"
)

// Metrics holds the Prometheus collectors for plan builds. A nil *Metrics
// records nothing.
type Metrics struct {
	PlanBuilds       *prometheus.CounterVec
	PlanDuration     prometheus.Histogram
	PlanNodes        prometheus.Histogram
	PlanTokens       prometheus.Histogram
	NodeComplexity   prometheus.Histogram
	BudgetViolations prometheus.Counter
	DroppedEdges     prometheus.Counter
	ArtifactsStored  *prometheus.CounterVec

	// Errors by structured error code
	Errors *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with all collectors registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		PlanBuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgraph_plan_builds_total",
				Help: "Total number of plan builds by outcome",
			},
			[]string{"outcome"},
		),
		PlanDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskgraph_plan_duration_seconds",
				Help:    "Plan build duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
		),
		PlanNodes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskgraph_plan_nodes",
				Help:    "Number of nodes in built plans",
				Buckets: []float64{1, 5, 10, 20, 50, 100, 200},
			},
		),
		PlanTokens: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskgraph_plan_planned_tokens",
				Help:    "Sum of node token budgets in built plans",
				Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
			},
		),
		NodeComplexity: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskgraph_node_complexity_score",
				Help:    "Composite complexity score of planned nodes",
				Buckets: []float64{20, 40, 60, 80, 100},
			},
		),
		BudgetViolations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "taskgraph_budget_violations_total",
				Help: "Total number of nodes left over token capacity",
			},
		),
		DroppedEdges: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "taskgraph_dropped_edges_total",
				Help: "Total number of edges dropped while partitioning",
			},
		),
		ArtifactsStored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgraph_artifacts_stored_total",
				Help: "Total number of artifacts written to the store",
			},
			[]string{"kind"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskgraph_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}

// PlanStats summarizes one successful build
type PlanStats struct {
	Duration      time.Duration
	Nodes         int
	PlannedTokens int
	Complexity    []float64
	Violations    int
	DroppedEdges  int
}

// RecordPlan records a successful build
func (m *Metrics) RecordPlan(s PlanStats) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if s.Violations > 0 {
		outcome = OutcomeViolations
	}
	m.PlanBuilds.WithLabelValues(outcome).Inc()
	m.PlanDuration.Observe(s.Duration.Seconds())
	m.PlanNodes.Observe(float64(s.Nodes))
	m.PlanTokens.Observe(float64(s.PlannedTokens))
	for _, ccs := range s.Complexity {
		m.NodeComplexity.Observe(ccs)
	}
	m.BudgetViolations.Add(float64(s.Violations))
	m.DroppedEdges.Add(float64(s.DroppedEdges))
}

// RecordFailure records a failed build under its error code
func (m *Metrics) RecordFailure(code, component string) {
	if m == nil {
		return
	}
	m.PlanBuilds.WithLabelValues(OutcomeFailed).Inc()
	m.RecordError(code, component)
}

// RecordError counts an error. An empty code is recorded as "unknown".
func (m *Metrics) RecordError(code, component string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "unknown"
	}
	m.Errors.WithLabelValues(code, component).Inc()
}

// RecordArtifact counts an artifact written to the store
func (m *Metrics) RecordArtifact(kind string) {
	if m == nil {
		return
	}
	m.ArtifactsStored.WithLabelValues(kind).Inc()
}
