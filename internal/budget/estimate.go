// Package budget sizes plan nodes against a model context window and splits
// nodes that do not fit.
package budget

import (
	"math"
	"strings"

	"github.com/felixgeelhaar/taskgraph/internal/plan"
)

const (
	minTokens       = 32
	baseTokens      = 128
	tokensPerWord   = 1.5
	tokensPerTask   = 40
	tokensPerCheck  = 20
	maxPartAttempts = 128
)

// EstimateTokens approximates the token cost of a free-text description
func EstimateTokens(text string) int {
	return estimateWords(len(strings.Fields(text)))
}

func estimateWords(words int) int {
	return max(minTokens, int(math.Floor(float64(words)*tokensPerWord))+baseTokens)
}

// NodeBudget is the token budget of a single node, never below floor
func NodeBudget(n plan.NodeSpec, floor int) int {
	return budgetFromCounts(len(strings.Fields(n.Description)), len(n.Instructions.Tasks), len(n.AcceptanceCriteria), floor)
}

func budgetFromCounts(words, tasks, criteria, floor int) int {
	return max(floor, estimateWords(words)+tokensPerTask*tasks+tokensPerCheck*criteria)
}

// Capacity is the usable part of a context window after reserving headroom
func Capacity(window int, headroom float64) int {
	return int(math.Floor(float64(window) * (1 - headroom)))
}
