package planner

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskgraph/internal/artifact"
	"github.com/felixgeelhaar/taskgraph/internal/contract"
	"github.com/felixgeelhaar/taskgraph/internal/errors"
	"github.com/felixgeelhaar/taskgraph/internal/log"
	"github.com/felixgeelhaar/taskgraph/internal/metrics"
	"github.com/felixgeelhaar/taskgraph/internal/prd"
)

// CreateRequest names the inputs of a plan
type CreateRequest struct {
	PRDPath      string
	ContractPath string
	Tuning       Tuning
	// Store persists the plan document and report when the service has a store
	Store bool
}

// Created is a built plan and, when persisted, its artifact references
type Created struct {
	Plan        *Result
	DocumentRef string
	ReportRef   string
}

// Service builds plans from files and persists them as artifacts
type Service struct {
	store     artifact.Store
	logger    *log.Logger
	generator string
	metrics   *metrics.Metrics
}

// NewService creates a service. store may be nil when plans are never persisted.
func NewService(store artifact.Store, logger *log.Logger, generator string) *Service {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Service{store: store, logger: logger.With("component", "planner"), generator: generator}
}

// WithMetrics records build outcomes to m
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

func (s *Service) fail(ctx context.Context, logger *log.Logger, component string, err error) error {
	logger.LogErrorContext(ctx, err)
	if component == "store" {
		s.metrics.RecordError(string(errors.CodeOf(err)), component)
	} else {
		s.metrics.RecordFailure(string(errors.CodeOf(err)), component)
	}
	return err
}

// Create loads the contract and PRD, builds the plan and optionally stores it.
// Nothing is stored when the plan fails coverage.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Created, error) {
	start := time.Now()

	c, err := contract.Load(ctx, req.ContractPath)
	if err != nil {
		return nil, s.fail(ctx, s.logger, "contract", err)
	}
	features, err := prd.Load(req.PRDPath)
	if err != nil {
		return nil, s.fail(ctx, s.logger, "prd", err)
	}
	s.logger.Debug("inputs loaded",
		"contract", req.ContractPath,
		"contract_hash", c.Hash,
		"operations", len(c.Operations),
		"schemas", len(c.Schemas),
		"headings", len(features.Headings),
		"constraints", len(features.Constraints),
		"has_ui", features.HasUI,
	)

	if req.Tuning.FloorExceedsCapacity() {
		s.logger.Warn("token budget floor exceeds capacity; every node will violate the budget",
			"error_code", string(errors.ErrCodeConfigDegenerate),
			"floor", req.Tuning.TokenBudgetFloor,
			"capacity", req.Tuning.Capacity(),
		)
	}

	result, err := Build(Input{Contract: *c, Features: features}, req.Tuning)
	if err != nil {
		return nil, s.fail(ctx, s.logger, "planner", err)
	}

	logger := s.logger.With("plan_id", result.ID)
	logger.InfoContext(ctx, "plan built",
		"nodes", len(result.Nodes),
		"edges", len(result.Edges),
		"planned_tokens", result.Report.Tokens.Planned,
		"ccs_mean", result.Report.CCS.Mean,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if v := result.Violations(); len(v) > 0 {
		logger.WarnContext(ctx, "plan has nodes over token capacity",
			"violations", v,
			"capacity", result.Budget.Capacity,
		)
	}
	if result.Budget.DroppedEdges > 0 {
		logger.WarnContext(ctx, "edges dropped while partitioning", "count", result.Budget.DroppedEdges)
	}

	complexity := make([]float64, len(result.Nodes))
	for i, n := range result.Nodes {
		complexity[i] = n.Complexity.CCS
	}
	s.metrics.RecordPlan(metrics.PlanStats{
		Duration:      time.Since(start),
		Nodes:         len(result.Nodes),
		PlannedTokens: result.Report.Tokens.Planned,
		Complexity:    complexity,
		Violations:    len(result.Violations()),
		DroppedEdges:  result.Budget.DroppedEdges,
	})

	created := &Created{Plan: result}
	if !req.Store || s.store == nil {
		return created, nil
	}

	created.DocumentRef, err = artifact.PutJSON(ctx, s.store, NewDocument(result, s.generator))
	if err != nil {
		return nil, s.fail(ctx, logger, "store", err)
	}
	s.metrics.RecordArtifact("document")
	created.ReportRef, err = artifact.PutJSON(ctx, s.store, result.Report)
	if err != nil {
		return nil, s.fail(ctx, logger, "store", err)
	}
	s.metrics.RecordArtifact("report")
	logger.InfoContext(ctx, "plan stored", "document", created.DocumentRef, "report", created.ReportRef)
	return created, nil
}
