package budget

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskgraph/internal/plan"
)

// Config carries the limits a partition run enforces
type Config struct {
	Capacity int
	Floor    int
}

// Summary describes the budgets of a partitioned node list
type Summary struct {
	Budgets              []int `json:"budgets"`
	Capacity             int   `json:"capacity"`
	Floor                int   `json:"floor"`
	Violations           []int `json:"violations"`
	FloorExceedsCapacity bool  `json:"floorExceedsCapacity,omitempty"`
	DroppedEdges         int   `json:"droppedEdges,omitempty"`
}

// Result is the partitioned graph. Mapping relates every input node index to
// the indices of the nodes that replaced it.
type Result struct {
	Nodes   []plan.NodeSpec `json:"nodes"`
	Edges   []plan.EdgeSpec `json:"edges"`
	Mapping plan.IndexMap   `json:"mapping"`
	Summary Summary         `json:"summary"`
}

type part struct {
	node   plan.NodeSpec
	budget int
}

// Partition splits every node whose budget exceeds the configured capacity
// and rewires edges onto the resulting parts. Input slices are not modified.
func Partition(nodes []plan.NodeSpec, edges []plan.EdgeSpec, cfg Config) Result {
	result := Result{
		Nodes:   make([]plan.NodeSpec, 0, len(nodes)),
		Mapping: make(plan.IndexMap, len(nodes)),
		Summary: Summary{
			Budgets:              make([]int, 0, len(nodes)),
			Capacity:             cfg.Capacity,
			Floor:                cfg.Floor,
			Violations:           []int{},
			FloorExceedsCapacity: cfg.Floor > cfg.Capacity,
		},
	}

	if budgets, ok := fitAll(nodes, cfg); ok {
		for _, node := range nodes {
			result.Nodes = append(result.Nodes, node.Clone())
		}
		result.Summary.Budgets = budgets
		result.Mapping = plan.Identity(len(nodes))
		result.Edges, result.Summary.DroppedEdges = Rewire(edges, result.Mapping, nodes)
		return result
	}

	for i, node := range nodes {
		parts := partitionNode(node, cfg)
		indices := make([]int, 0, len(parts))
		for _, p := range parts {
			indices = append(indices, len(result.Nodes))
			result.Nodes = append(result.Nodes, p.node)
			result.Summary.Budgets = append(result.Summary.Budgets, p.budget)
		}
		result.Mapping[i] = indices
	}

	for i, b := range result.Summary.Budgets {
		if b > cfg.Capacity {
			result.Summary.Violations = append(result.Summary.Violations, i)
		}
	}

	result.Edges, result.Summary.DroppedEdges = Rewire(edges, result.Mapping, nodes)
	return result
}

// fitAll returns every node's budget and whether all of them fit capacity
func fitAll(nodes []plan.NodeSpec, cfg Config) ([]int, bool) {
	budgets := make([]int, len(nodes))
	for i, node := range nodes {
		budgets[i] = NodeBudget(node, cfg.Floor)
		if budgets[i] > cfg.Capacity {
			return nil, false
		}
	}
	return budgets, true
}

func partitionNode(node plan.NodeSpec, cfg Config) []part {
	base := NodeBudget(node, cfg.Floor)
	if base <= cfg.Capacity {
		return []part{{node: node.Clone(), budget: base}}
	}

	tasks := node.Instructions.Tasks
	criteria := node.AcceptanceCriteria
	words := strings.Fields(node.Description)

	kMin := max(2, ceilDiv(base, cfg.Capacity))
	kMax := min(maxPartAttempts, max(2*kMin, orDefault(len(tasks)+len(criteria), kMin), orDefault(len(words), kMin)))

	for k := kMin; k <= kMax; k++ {
		if parts, ok := splitEven(node, words, k, cfg); ok {
			return parts
		}
	}

	return splitGreedy(node, words, base, cfg)
}

// splitEven tries k contiguous, near-equal parts. It fails when a part is
// still over capacity or its description words had to be truncated.
func splitEven(node plan.NodeSpec, words []string, k int, cfg Config) ([]part, bool) {
	taskChunks := chunk(node.Instructions.Tasks, k)
	criteriaChunks := chunk(node.AcceptanceCriteria, k)
	wordChunks := chunk(words, k)

	parts := make([]part, 0, k)
	for i := range k {
		note := strings.Fields(fmt.Sprintf("Subtask %d of %d continuing %s.", i+1, k, node.Title))
		content := append(append([]string{}, wordChunks[i]...), note...)

		fitted := fitWords(content, len(taskChunks[i]), len(criteriaChunks[i]), cfg, len(wordChunks[i]) > 0)
		if len(fitted) < len(wordChunks[i]) {
			return nil, false
		}

		p := newPart(node, fmt.Sprintf("%s (part %d of %d)", node.Title, i+1, k), fitted, taskChunks[i], criteriaChunks[i])
		p.budget = NodeBudget(p.node, cfg.Floor)
		if p.budget > cfg.Capacity {
			return nil, false
		}
		parts = append(parts, p)
	}
	return parts, true
}

// splitGreedy fills parts round-robin from the front of each content queue.
// Content that cannot be placed in an empty part is emitted as one residual
// part that keeps its real, over-capacity budget.
func splitGreedy(node plan.NodeSpec, words []string, base int, cfg Config) []part {
	tasks := append([]string{}, node.Instructions.Tasks...)
	criteria := append([]string{}, node.AcceptanceCriteria...)
	remaining := append([]string{}, words...)

	var parts []part
	for len(tasks) > 0 || len(criteria) > 0 || len(remaining) > 0 {
		index := len(parts) + 1
		var partTasks, partCriteria, partWords []string

		for changed := true; changed; {
			changed = false
			if len(tasks) > 0 && budgetFromCounts(len(partWords), len(partTasks)+1, len(partCriteria), cfg.Floor) <= cfg.Capacity {
				partTasks = append(partTasks, tasks[0])
				tasks = tasks[1:]
				changed = true
			}
			if len(criteria) > 0 && budgetFromCounts(len(partWords), len(partTasks), len(partCriteria)+1, cfg.Floor) <= cfg.Capacity {
				partCriteria = append(partCriteria, criteria[0])
				criteria = criteria[1:]
				changed = true
			}
			if len(remaining) > 0 && budgetFromCounts(len(partWords)+1, len(partTasks), len(partCriteria), cfg.Floor) <= cfg.Capacity {
				partWords = append(partWords, remaining[0])
				remaining = remaining[1:]
				changed = true
			}
		}

		if len(partTasks) == 0 && len(partCriteria) == 0 && len(partWords) == 0 {
			if len(parts) == 0 {
				return []part{{node: node.Clone(), budget: base}}
			}
			residual := newPart(node, greedyTitle(node, index), append(remaining, greedyNote(node, index)...), tasks, criteria)
			residual.budget = NodeBudget(residual.node, cfg.Floor)
			return append(parts, residual)
		}

		content := append(partWords, greedyNote(node, index)...)
		fitted := fitWords(content, len(partTasks), len(partCriteria), cfg, false)
		p := newPart(node, greedyTitle(node, index), fitted, partTasks, partCriteria)
		p.budget = NodeBudget(p.node, cfg.Floor)
		parts = append(parts, p)
	}
	return parts
}

func greedyTitle(node plan.NodeSpec, i int) string {
	return fmt.Sprintf("%s (part %d)", node.Title, i)
}

func greedyNote(node plan.NodeSpec, i int) []string {
	return strings.Fields(fmt.Sprintf("Subtask %d of partition for %s.", i, node.Title))
}

func newPart(node plan.NodeSpec, title string, words, tasks, criteria []string) part {
	n := node.Clone()
	n.Title = title
	n.Description = strings.Join(words, " ")
	n.Instructions.Tasks = nonNil(tasks)
	n.AcceptanceCriteria = nonNil(criteria)
	return part{node: n}
}

// fitWords returns the longest prefix of words whose budget, together with
// the given task and criteria counts, stays within capacity. With forceOne,
// one word is kept even when nothing fits.
func fitWords(words []string, tasks, criteria int, cfg Config, forceOne bool) []string {
	if cfg.Capacity <= 0 || len(words) == 0 {
		return nil
	}

	best := 0
	lo, hi := 0, len(words)
	for lo <= hi {
		mid := (lo + hi) / 2
		if budgetFromCounts(mid, tasks, criteria, cfg.Floor) <= cfg.Capacity {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best == 0 && forceOne {
		best = 1
	}
	return append([]string{}, words[:best]...)
}

// chunk splits items into k contiguous runs whose sizes differ by at most
// one; the first len(items)%k runs are the longer ones.
func chunk(items []string, k int) [][]string {
	out := make([][]string, k)
	size, remainder := len(items)/k, len(items)%k
	start := 0
	for i := range k {
		n := size
		if i < remainder {
			n++
		}
		out[i] = append([]string{}, items[start:start+n]...)
		start += n
	}
	return out
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
