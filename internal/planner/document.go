package planner

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/felixgeelhaar/taskgraph/internal/budget"
	"github.com/felixgeelhaar/taskgraph/internal/errors"
	"github.com/felixgeelhaar/taskgraph/internal/plan"
)

// DocumentVersion is the current plan document schema version
const DocumentVersion = 1

// Document is the persisted form of a plan
type Document struct {
	SchemaVersion int     `json:"schemaVersion"`
	Generator     string  `json:"generator,omitempty"`
	Plan          *Result `json:"plan"`
}

// NewDocument wraps r for persistence
func NewDocument(r *Result, generator string) *Document {
	return &Document{SchemaVersion: DocumentVersion, Generator: generator, Plan: r}
}

// Validate checks the graph structure, recorded budgets against capacity,
// and contract coverage
func (d *Document) Validate(capacity int) error {
	if d.SchemaVersion != DocumentVersion {
		return errors.New(errors.ErrCodePlanInvalid, fmt.Sprintf("unsupported plan schema version %d", d.SchemaVersion)).
			WithSuggestion("Regenerate the plan with 'taskgraph plan create'")
	}
	if d.Plan == nil {
		return errors.New(errors.ErrCodePlanInvalid, "plan document has no plan")
	}

	p := d.Plan
	if err := (plan.BuildResult{Nodes: p.Specs(), Edges: p.Edges}).Validate(); err != nil {
		return err
	}

	var violations []int
	for i, n := range p.Nodes {
		if want := budget.NodeBudget(n.NodeSpec, p.Tuning.TokenBudgetFloor); n.TokenBudget != want {
			return errors.New(errors.ErrCodePlanInvalid,
				fmt.Sprintf("node %d (%s) records budget %d but its content estimates %d", i, n.Title, n.TokenBudget, want))
		}
		if n.TokenBudget > capacity {
			violations = append(violations, i)
		}
	}
	if len(violations) > 0 {
		return errors.NewBudgetViolationError(capacity, violations)
	}

	if len(p.Coverage.Missing) > 0 {
		return errors.NewCoverageMissingError(p.Coverage.Missing)
	}
	return nil
}

// SaveDocument writes d as indented JSON readable only by the owner
func SaveDocument(d *Document, path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "failed to encode plan document", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to write plan document %s", path), err)
	}
	return nil
}

// LoadDocument reads a plan document written by SaveDocument
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.NewFileNotFoundError(path).
			WithSuggestion("Create a plan first with 'taskgraph plan create'")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read plan document %s", path), err)
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "JSON", err)
	}
	return &d, nil
}
