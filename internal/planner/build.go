// Package planner runs the planning pipeline: assemble the phase graph from a
// contract and PRD, enforce token budgets, score complexity and check
// contract coverage.
package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/taskgraph/internal/budget"
	"github.com/felixgeelhaar/taskgraph/internal/complexity"
	"github.com/felixgeelhaar/taskgraph/internal/contract"
	"github.com/felixgeelhaar/taskgraph/internal/coverage"
	"github.com/felixgeelhaar/taskgraph/internal/errors"
	"github.com/felixgeelhaar/taskgraph/internal/plan"
	"github.com/felixgeelhaar/taskgraph/internal/prd"
)

// Input is everything the pipeline derives a plan from
type Input struct {
	Contract contract.Contract
	Features prd.Features
}

// Node is a final plan node with its token budget and complexity assessment
type Node struct {
	plan.NodeSpec
	TokenBudget int                  `json:"tokenBudget"`
	Complexity  complexity.Breakdown `json:"complexity"`
}

// Result is a complete plan
type Result struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"createdAt"`
	ContractHash string          `json:"contractHash"`
	Tuning       Tuning          `json:"tuning"`
	Nodes        []Node          `json:"nodes"`
	Edges        []plan.EdgeSpec `json:"edges"`
	Coverage     coverage.Result `json:"coverage"`
	Budget       budget.Summary  `json:"budget"`
	Report       Report          `json:"report"`
}

// Violations returns the indices of nodes whose budget exceeds capacity
func (r *Result) Violations() []int {
	return r.Budget.Violations
}

// Specs returns the node specs without budgets and scores
func (r *Result) Specs() []plan.NodeSpec {
	specs := make([]plan.NodeSpec, len(r.Nodes))
	for i, n := range r.Nodes {
		specs[i] = n.NodeSpec
	}
	return specs
}

// Build runs the full pipeline. It fails when the tuning is invalid, the
// assembled graph is malformed, or any contract operation is left
// unreferenced. Nodes that still exceed capacity are reported in
// Budget.Violations rather than returned as an error.
func Build(in Input, t Tuning) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	graph := plan.Build(in.Contract, in.Features)
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	partitioned := budget.Partition(graph.Nodes, graph.Edges, budget.Config{
		Capacity: t.Capacity(),
		Floor:    t.TokenBudgetFloor,
	})

	cov := coverage.Compute(in.Contract.OperationIDs(), partitioned.Nodes)
	if !cov.Complete() {
		return nil, errors.NewCoverageMissingError(cov.Missing)
	}

	scores := complexity.Score(partitioned.Nodes, partitioned.Edges, complexity.Config{
		DefaultModelClass:  t.DefaultModelClass,
		OptionalModelClass: t.OptionalModelClass,
	})

	nodes := make([]Node, len(partitioned.Nodes))
	for i, spec := range partitioned.Nodes {
		nodes[i] = Node{
			NodeSpec:    spec,
			TokenBudget: partitioned.Summary.Budgets[i],
			Complexity:  scores[i],
		}
	}

	result := &Result{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		ContractHash: in.Contract.Hash,
		Tuning:       t,
		Nodes:        nodes,
		Edges:        partitioned.Edges,
		Coverage:     cov,
		Budget:       partitioned.Summary,
	}
	result.Report = NewReport(result)
	return result, nil
}
