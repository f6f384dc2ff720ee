package budget

import (
	"fmt"

	"github.com/felixgeelhaar/taskgraph/internal/plan"
)

// Rewire maps edges onto partitioned nodes. Each (u, v) becomes
// (last(u), first(v)) and every split node gets a chain of ordering edges
// between its parts. Edges whose endpoints have no mapping are dropped and
// counted.
func Rewire(edges []plan.EdgeSpec, mapping plan.IndexMap, original []plan.NodeSpec) ([]plan.EdgeSpec, int) {
	out := make([]plan.EdgeSpec, 0, len(edges))
	dropped := 0

	for _, e := range edges {
		from, to := mapping.Lookup(e.From), mapping.Lookup(e.To)
		if len(from) == 0 || len(to) == 0 {
			dropped++
			continue
		}
		out = append(out, plan.EdgeSpec{
			From:         from[len(from)-1],
			To:           to[0],
			Description:  e.Description,
			ArtifactType: e.ArtifactType,
		})
	}

	for i, indices := range mapping {
		for j := 1; j < len(indices); j++ {
			out = append(out, plan.EdgeSpec{
				From:        indices[j-1],
				To:          indices[j],
				Description: fmt.Sprintf("Partition order for %s", original[i].Title),
			})
		}
	}

	return out, dropped
}
