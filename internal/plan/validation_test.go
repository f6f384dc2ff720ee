package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskgraph/internal/domain"
	tgerrors "github.com/felixgeelhaar/taskgraph/internal/errors"
)

func nodesOf(n int) []NodeSpec {
	nodes := make([]NodeSpec, n)
	for i := range nodes {
		nodes[i] = NodeSpec{Phase: domain.PhaseBackend, Title: "n"}
	}
	return nodes
}

func TestBuildResultValidate(t *testing.T) {
	tests := []struct {
		name     string
		result   BuildResult
		wantCode tgerrors.ErrorCode
	}{
		{
			name:   "empty graph",
			result: BuildResult{},
		},
		{
			name:   "chain",
			result: BuildResult{Nodes: nodesOf(3), Edges: []EdgeSpec{{From: 0, To: 1}, {From: 1, To: 2}}},
		},
		{
			name:   "diamond",
			result: BuildResult{Nodes: nodesOf(4), Edges: []EdgeSpec{{From: 0, To: 1}, {From: 0, To: 2}, {From: 1, To: 3}, {From: 2, To: 3}}},
		},
		{
			name:     "out of bounds",
			result:   BuildResult{Nodes: nodesOf(2), Edges: []EdgeSpec{{From: 0, To: 2}}},
			wantCode: tgerrors.ErrCodePlanInvalid,
		},
		{
			name:     "negative index",
			result:   BuildResult{Nodes: nodesOf(2), Edges: []EdgeSpec{{From: -1, To: 1}}},
			wantCode: tgerrors.ErrCodePlanInvalid,
		},
		{
			name:     "self loop",
			result:   BuildResult{Nodes: nodesOf(2), Edges: []EdgeSpec{{From: 1, To: 1}}},
			wantCode: tgerrors.ErrCodePlanCyclicDep,
		},
		{
			name:     "cycle",
			result:   BuildResult{Nodes: nodesOf(3), Edges: []EdgeSpec{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 0}}},
			wantCode: tgerrors.ErrCodePlanCyclicDep,
		},
		{
			name:     "invalid phase",
			result:   BuildResult{Nodes: []NodeSpec{{Phase: "qa"}}},
			wantCode: tgerrors.ErrCodePlanInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, tgerrors.CodeOf(err), "got %v", err)
		})
	}
}

func TestCycleErrorShowsPath(t *testing.T) {
	err := BuildResult{Nodes: nodesOf(3), Edges: []EdgeSpec{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 0}}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0 -> 1 -> 2 -> 0")
}

func TestDegreesAndLevels(t *testing.T) {
	edges := []EdgeSpec{{From: 0, To: 1}, {From: 0, To: 2}, {From: 1, To: 3}, {From: 2, To: 3}, {From: 3, To: 4}, {From: 0, To: 9}}

	in, out := Degrees(5, edges)
	assert.Equal(t, []int{0, 1, 1, 2, 1}, in)
	assert.Equal(t, []int{2, 1, 1, 1, 0}, out)

	assert.Equal(t, []int{0, 1, 1, 2, 3}, Levels(5, edges))
	assert.Empty(t, Levels(0, nil))
}
