// Package coverage checks that every contract operation is referenced by a plan node.
package coverage

import (
	"sort"

	"github.com/felixgeelhaar/taskgraph/internal/plan"
)

// Result summarizes operation coverage. Missing is sorted and never nil.
type Result struct {
	Total   int      `json:"total"`
	Covered int      `json:"covered"`
	Missing []string `json:"missing"`
}

// Complete reports whether every operation is referenced
func (r Result) Complete() bool {
	return len(r.Missing) == 0
}

// Compute compares the contract's operation ids with the operations
// referenced by the nodes' instructions
func Compute(operationIDs []string, nodes []plan.NodeSpec) Result {
	all := make(map[string]struct{}, len(operationIDs))
	for _, id := range operationIDs {
		all[id] = struct{}{}
	}

	referenced := make(map[string]struct{})
	for _, n := range nodes {
		for _, op := range n.Instructions.ContractOps {
			referenced[op] = struct{}{}
		}
	}

	missing := make([]string, 0)
	for id := range all {
		if _, ok := referenced[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)

	return Result{
		Total:   len(all),
		Covered: len(all) - len(missing),
		Missing: missing,
	}
}
