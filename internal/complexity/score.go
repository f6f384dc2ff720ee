// Package complexity scores plan nodes and recommends how many subtasks an
// executor should use for each.
package complexity

import (
	"math"
	"strings"

	"github.com/felixgeelhaar/taskgraph/internal/plan"
)

// Feature weights of the composite score
const (
	weightDependency = 0.30
	weightSize       = 0.20
	weightNovelty    = 0.20
	weightAlignment  = 0.15
	weightResearch   = 0.15
)

// OptionalClassThreshold is the score from which the optional model class is selected
const OptionalClassThreshold = 81

// Config selects the model classes a breakdown can recommend
type Config struct {
	DefaultModelClass  string
	OptionalModelClass string
}

// Breakdown is the complexity assessment of one node. Feature scores are
// normalized to 0..1; CCS is on a 0..100 scale.
type Breakdown struct {
	NodeIndex           int     `json:"nodeIndex"`
	Dependency          float64 `json:"d"`
	Size                float64 `json:"s"`
	Novelty             float64 `json:"n"`
	Alignment           float64 `json:"a"`
	Research            float64 `json:"r"`
	CCS                 float64 `json:"ccs"`
	RecommendedSubtasks int     `json:"recommendedSubtasks"`
	Confidence          float64 `json:"confidence"`
	ModelClass          string  `json:"modelClass"`
}

// Score computes one breakdown per node using degrees from edges
func Score(nodes []plan.NodeSpec, edges []plan.EdgeSpec, cfg Config) []Breakdown {
	in, out := plan.Degrees(len(nodes), edges)

	breakdowns := make([]Breakdown, len(nodes))
	for i, node := range nodes {
		breakdowns[i] = scoreNode(i, node, in[i], out[i], cfg)
	}
	return breakdowns
}

func scoreNode(index int, node plan.NodeSpec, in, out int, cfg Config) Breakdown {
	tasks := node.Instructions.Tasks
	contractRefs := len(node.Instructions.ContractOps)

	b := Breakdown{
		NodeIndex:  index,
		Dependency: ratio(in+out+contractRefs, 6),
		Size:       ratio(len(tasks)+len(node.AcceptanceCriteria), 8),
		Novelty:    novelty(tasks),
		Alignment:  ratio(contractRefs+len(node.RequirementRefs), 6),
		Research:   research(tasks),
	}

	weighted := weightDependency*b.Dependency +
		weightSize*b.Size +
		weightNovelty*b.Novelty +
		weightAlignment*b.Alignment +
		weightResearch*b.Research

	b.CCS = round2(100 * weighted)
	b.RecommendedSubtasks = max(1, int(math.Ceil(b.CCS/15)))
	b.Confidence = max(0.5, round2(1-b.CCS/200))
	b.ModelClass = cfg.DefaultModelClass
	if b.CCS >= OptionalClassThreshold && cfg.OptionalModelClass != "" {
		b.ModelClass = cfg.OptionalModelClass
	}
	return b
}

func ratio(n, of int) float64 {
	return math.Min(1, float64(n)/float64(of))
}

func novelty(tasks []string) float64 {
	distinct := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		distinct[t] = struct{}{}
	}
	if len(distinct) == 0 {
		return 0.1
	}
	return ratio(len(distinct), 6)
}

func research(tasks []string) float64 {
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t), "research") {
			return 0.4
		}
	}
	return 0.1
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
