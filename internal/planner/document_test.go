package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskgraph/internal/errors"
	"github.com/felixgeelhaar/taskgraph/internal/plan"
)

func builtDocument(t *testing.T) *Document {
	t.Helper()
	result, err := Build(widgetInput(), Tuning{DefaultModelWindow: 350, WindowHeadroomPct: 0.1, TokenBudgetFloor: 64, DefaultModelClass: "Class-200K"})
	require.NoError(t, err)
	return NewDocument(result, "taskgraph test")
}

func TestDocument_SaveLoadRoundTrip(t *testing.T) {
	doc := builtDocument(t)
	path := filepath.Join(t.TempDir(), "plan.json")

	require.NoError(t, SaveDocument(doc, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Plan.ID, loaded.Plan.ID)
	assert.Equal(t, doc.Plan.Nodes, loaded.Plan.Nodes)
	assert.Equal(t, doc.Plan.Edges, loaded.Plan.Edges)
	assert.True(t, doc.Plan.CreatedAt.Equal(loaded.Plan.CreatedAt))
	assert.NoError(t, loaded.Validate(doc.Plan.Tuning.Capacity()))
}

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Document)
		capacity int
		wantCode errors.ErrorCode
	}{
		{
			name:     "valid",
			mutate:   func(*Document) {},
			capacity: 315,
		},
		{
			name:     "capacity lowered below budgets",
			mutate:   func(*Document) {},
			capacity: 100,
			wantCode: errors.ErrCodePlanBudgetViolation,
		},
		{
			name:     "tampered budget",
			mutate:   func(d *Document) { d.Plan.Nodes[0].TokenBudget = 1 },
			capacity: 315,
			wantCode: errors.ErrCodePlanInvalid,
		},
		{
			name:     "missing coverage",
			mutate:   func(d *Document) { d.Plan.Coverage.Missing = []string{"deleteWidget"} },
			capacity: 315,
			wantCode: errors.ErrCodePlanCoverageMissing,
		},
		{
			name: "cycle",
			mutate: func(d *Document) {
				first := d.Plan.Edges[0]
				d.Plan.Edges = append(d.Plan.Edges, plan.EdgeSpec{From: first.To, To: first.From})
			},
			capacity: 315,
			wantCode: errors.ErrCodePlanCyclicDep,
		},
		{
			name:     "unknown schema version",
			mutate:   func(d *Document) { d.SchemaVersion = 99 },
			capacity: 315,
			wantCode: errors.ErrCodePlanInvalid,
		},
		{
			name:     "no plan",
			mutate:   func(d *Document) { d.Plan = nil },
			capacity: 315,
			wantCode: errors.ErrCodePlanInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := builtDocument(t)
			tt.mutate(doc)
			err := doc.Validate(tt.capacity)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantCode, errors.CodeOf(err), "got %v", err)
		})
	}
}

func TestLoadDocument_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDocument(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err = LoadDocument(bad)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileUnmarshal))
}
