package plan

import (
	"fmt"
	"strings"

	tgerrors "github.com/felixgeelhaar/taskgraph/internal/errors"
)

// Validate checks node phases, edge bounds and acyclicity
func (r BuildResult) Validate() error {
	for i, node := range r.Nodes {
		if err := node.Phase.Validate(); err != nil {
			return tgerrors.Wrap(tgerrors.ErrCodePlanInvalid, fmt.Sprintf("node at index %d (%s) is invalid", i, node.Title), err)
		}
	}

	for i, edge := range r.Edges {
		if edge.From < 0 || edge.From >= len(r.Nodes) || edge.To < 0 || edge.To >= len(r.Nodes) {
			return tgerrors.New(tgerrors.ErrCodePlanInvalid,
				fmt.Sprintf("edge at index %d (%d -> %d) is out of bounds for %d nodes", i, edge.From, edge.To, len(r.Nodes)))
		}
		if edge.From == edge.To {
			return tgerrors.NewPlanCycleError(fmt.Sprintf("%d -> %d", edge.From, edge.To))
		}
	}

	return r.checkCircularDependencies()
}

// checkCircularDependencies detects cycles in the edge graph
func (r BuildResult) checkCircularDependencies() error {
	graph := make([][]int, len(r.Nodes))
	for _, edge := range r.Edges {
		graph[edge.From] = append(graph[edge.From], edge.To)
	}

	visited := make([]bool, len(r.Nodes))
	recStack := make([]bool, len(r.Nodes))

	var hasCycle func(node int, path []int) error
	hasCycle = func(node int, path []int) error {
		visited[node] = true
		recStack[node] = true
		path = append(path, node)

		for _, next := range graph[node] {
			if !visited[next] {
				if err := hasCycle(next, path); err != nil {
					return err
				}
			} else if recStack[next] {
				return tgerrors.NewPlanCycleError(formatPath(append(path, next)))
			}
		}

		recStack[node] = false
		return nil
	}

	for i := range r.Nodes {
		if !visited[i] {
			if err := hasCycle(i, nil); err != nil {
				return err
			}
		}
	}

	return nil
}

func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, " -> ")
}

// Degrees returns per-node in and out degrees. Edges outside the node range are ignored.
func Degrees(nodeCount int, edges []EdgeSpec) (in, out []int) {
	in = make([]int, nodeCount)
	out = make([]int, nodeCount)
	for _, e := range edges {
		if e.From < 0 || e.From >= nodeCount || e.To < 0 || e.To >= nodeCount {
			continue
		}
		out[e.From]++
		in[e.To]++
	}
	return in, out
}

// Levels returns the longest-path depth of every node (roots are level 0).
// The graph must be acyclic.
func Levels(nodeCount int, edges []EdgeSpec) []int {
	in, _ := Degrees(nodeCount, edges)
	adj := make([][]int, nodeCount)
	for _, e := range edges {
		if e.From < 0 || e.From >= nodeCount || e.To < 0 || e.To >= nodeCount {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
	}

	levels := make([]int, nodeCount)
	queue := make([]int, 0, nodeCount)
	for i, d := range in {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, next := range adj[n] {
			if levels[n]+1 > levels[next] {
				levels[next] = levels[n] + 1
			}
			in[next]--
			if in[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return levels
}
