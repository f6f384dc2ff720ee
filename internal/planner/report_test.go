package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/taskgraph/internal/budget"
	"github.com/felixgeelhaar/taskgraph/internal/complexity"
	"github.com/felixgeelhaar/taskgraph/internal/coverage"
	"github.com/felixgeelhaar/taskgraph/internal/domain"
	"github.com/felixgeelhaar/taskgraph/internal/plan"
)

func scoredNode(phase domain.Phase, tokens int, ccs, confidence float64) Node {
	return Node{
		NodeSpec:    plan.NodeSpec{Phase: phase},
		TokenBudget: tokens,
		Complexity:  complexity.Breakdown{CCS: ccs, Confidence: confidence},
	}
}

func TestNewReport(t *testing.T) {
	r := &Result{
		ID:     "plan-1",
		Tuning: testTuning(),
		Nodes: []Node{
			scoredNode(domain.PhaseProvisioning, 100, 10, 0.95),
			scoredNode(domain.PhaseBackend, 200, 40, 0.8),
			scoredNode(domain.PhaseBackend, 300, 41, 0.8),
			scoredNode(domain.PhaseDatabase, 400, 80, 0.6),
			scoredNode(domain.PhaseTest, 500, 81, 0.6),
		},
		Edges:    []plan.EdgeSpec{{From: 0, To: 3}, {From: 3, To: 1}, {From: 3, To: 2}, {From: 1, To: 4}, {From: 2, To: 4}},
		Coverage: coverage.Result{Total: 3, Covered: 3, Missing: []string{}},
		Budget:   budget.Summary{Capacity: 180000, Violations: []int{}},
	}

	report := NewReport(r)

	assert.Equal(t, "plan-1", report.PlanID)
	assert.Equal(t, []PhaseCount{
		{Phase: domain.PhaseProvisioning, Count: 1},
		{Phase: domain.PhaseDatabase, Count: 1},
		{Phase: domain.PhaseBackend, Count: 2},
		{Phase: domain.PhaseTest, Count: 1},
	}, report.NodesByPhase)
	assert.Equal(t, DAGStats{Depth: 4, MaxWidth: 2, Edges: 5}, report.DAG)
	assert.Equal(t, TokenStats{Planned: 1500, Capacity: 180000}, report.Tokens)

	assert.Equal(t, 50.4, report.CCS.Mean)
	assert.Equal(t, 81.0, report.CCS.P90)
	assert.Equal(t, 0.75, report.CCS.ConfidenceMean)
	assert.Equal(t, 2, report.CCS.Low)
	assert.Equal(t, 2, report.CCS.Medium)
	assert.Equal(t, 1, report.CCS.High)

	assert.Equal(t, 0.1, report.Window.HeadroomPct)
	assert.True(t, report.Window.Compliant)
	assert.Equal(t, 3, report.Coverage.Covered)
}

func TestNewReport_Empty(t *testing.T) {
	report := NewReport(&Result{ID: "empty"})

	assert.Empty(t, report.NodesByPhase)
	assert.Equal(t, DAGStats{}, report.DAG)
	assert.Zero(t, report.CCS.Mean)
	assert.NotNil(t, report.Window.Violations)
	assert.NotNil(t, report.Coverage.Missing)
	assert.True(t, report.Window.Compliant)
}

func TestNewReport_P90(t *testing.T) {
	nodes := make([]Node, 10)
	for i := range nodes {
		nodes[i] = scoredNode(domain.PhaseBackend, 1, float64((i+1)*10), 0.5)
	}

	report := NewReport(&Result{Nodes: nodes})

	assert.Equal(t, 90.0, report.CCS.P90)
	assert.Equal(t, 55.0, report.CCS.Mean)
}
