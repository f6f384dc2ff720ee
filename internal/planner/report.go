package planner

import (
	"math"
	"slices"

	"github.com/felixgeelhaar/taskgraph/internal/domain"
	"github.com/felixgeelhaar/taskgraph/internal/plan"
)

// Report summarizes a plan for reviewers
type Report struct {
	PlanID       string       `json:"planId"`
	NodesByPhase []PhaseCount `json:"nodesByPhase"`
	DAG          DAGStats     `json:"dag"`
	Tokens       TokenStats   `json:"tokens"`
	CCS          CCSStats     `json:"ccs"`
	Window       WindowStats  `json:"window"`
	Coverage     CoverageStat `json:"coverage"`
}

// PhaseCount is the number of nodes in one phase
type PhaseCount struct {
	Phase domain.Phase `json:"phase"`
	Count int          `json:"count"`
}

// DAGStats describes the shape of the dependency graph
type DAGStats struct {
	Depth    int `json:"depth"`
	MaxWidth int `json:"maxWidth"`
	Edges    int `json:"edges"`
}

// TokenStats sums planned tokens against capacity
type TokenStats struct {
	Planned  int `json:"planned"`
	Capacity int `json:"capacity"`
}

// CCSStats aggregates complexity scores. Bands count nodes scoring 0-40,
// 41-80 and 81-100.
type CCSStats struct {
	Mean           float64 `json:"mean"`
	P90            float64 `json:"p90"`
	ConfidenceMean float64 `json:"confidenceMean"`
	Low            int     `json:"low"`
	Medium         int     `json:"medium"`
	High           int     `json:"high"`
}

// WindowStats reports context window compliance
type WindowStats struct {
	HeadroomPct          float64 `json:"headroomPct"`
	Compliant            bool    `json:"compliant"`
	Violations           []int   `json:"violations"`
	FloorExceedsCapacity bool    `json:"floorExceedsCapacity,omitempty"`
}

// CoverageStat reports contract coverage
type CoverageStat struct {
	Total   int      `json:"total"`
	Covered int      `json:"covered"`
	Missing []string `json:"missing"`
}

// NewReport derives the report of r
func NewReport(r *Result) Report {
	report := Report{
		PlanID:       r.ID,
		NodesByPhase: nodesByPhase(r.Nodes),
		DAG:          dagStats(len(r.Nodes), r.Edges),
		Tokens:       TokenStats{Capacity: r.Budget.Capacity},
		Window: WindowStats{
			HeadroomPct:          r.Tuning.WindowHeadroomPct,
			Compliant:            len(r.Budget.Violations) == 0,
			Violations:           nonNilInts(r.Budget.Violations),
			FloorExceedsCapacity: r.Budget.FloorExceedsCapacity,
		},
		Coverage: CoverageStat{
			Total:   r.Coverage.Total,
			Covered: r.Coverage.Covered,
			Missing: r.Coverage.Missing,
		},
	}
	if report.Coverage.Missing == nil {
		report.Coverage.Missing = []string{}
	}

	if len(r.Nodes) == 0 {
		return report
	}

	scores := make([]float64, len(r.Nodes))
	var ccsSum, confidenceSum float64
	for i, n := range r.Nodes {
		report.Tokens.Planned += n.TokenBudget
		ccs := n.Complexity.CCS
		scores[i] = ccs
		ccsSum += ccs
		confidenceSum += n.Complexity.Confidence
		switch {
		case ccs <= 40:
			report.CCS.Low++
		case ccs <= 80:
			report.CCS.Medium++
		default:
			report.CCS.High++
		}
	}

	count := float64(len(r.Nodes))
	slices.Sort(scores)
	report.CCS.Mean = round2(ccsSum / count)
	report.CCS.P90 = round2(scores[int(math.Ceil(0.9*count))-1])
	report.CCS.ConfidenceMean = round2(confidenceSum / count)
	return report
}

func nodesByPhase(nodes []Node) []PhaseCount {
	counts := make(map[domain.Phase]int)
	for _, n := range nodes {
		counts[n.Phase]++
	}
	out := make([]PhaseCount, 0, len(counts))
	for _, phase := range domain.Phases() {
		if c := counts[phase]; c > 0 {
			out = append(out, PhaseCount{Phase: phase, Count: c})
		}
	}
	return out
}

// dagStats computes depth as the number of levels on the longest path and
// width as the size of the largest level
func dagStats(nodeCount int, edges []plan.EdgeSpec) DAGStats {
	stats := DAGStats{Edges: len(edges)}
	widths := make(map[int]int)
	for _, level := range plan.Levels(nodeCount, edges) {
		widths[level]++
		stats.Depth = max(stats.Depth, level+1)
		stats.MaxWidth = max(stats.MaxWidth, widths[level])
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
