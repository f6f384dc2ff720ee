package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/taskgraph/internal/plan"
)

func node(ops ...string) plan.NodeSpec {
	return plan.NodeSpec{Instructions: plan.Instructions{ContractOps: ops}}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		ops   []string
		nodes []plan.NodeSpec
		want  Result
	}{
		{
			name: "empty",
			want: Result{Missing: []string{}},
		},
		{
			name:  "fully covered",
			ops:   []string{"listWidgets", "createWidget"},
			nodes: []plan.NodeSpec{node("listWidgets"), node("createWidget", "listWidgets")},
			want:  Result{Total: 2, Covered: 2, Missing: []string{}},
		},
		{
			name:  "missing sorted",
			ops:   []string{"zeta", "alpha", "mid", "covered"},
			nodes: []plan.NodeSpec{node("covered")},
			want:  Result{Total: 4, Covered: 1, Missing: []string{"alpha", "mid", "zeta"}},
		},
		{
			name:  "duplicate ids count once",
			ops:   []string{"a", "a", "b"},
			nodes: []plan.NodeSpec{node("b")},
			want:  Result{Total: 2, Covered: 1, Missing: []string{"a"}},
		},
		{
			name:  "unknown references are ignored",
			ops:   []string{"a"},
			nodes: []plan.NodeSpec{node("a", "ghost")},
			want:  Result{Total: 1, Covered: 1, Missing: []string{}},
		},
		{
			name: "no nodes",
			ops:  []string{"a"},
			want: Result{Total: 1, Missing: []string{"a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.ops, tt.nodes)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want.Missing) == 0, got.Complete())
		})
	}
}
