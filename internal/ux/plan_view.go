package ux

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskgraph/internal/planner"
)

// PlanSummary is the text view of a freshly created plan
type PlanSummary struct {
	Plan        *planner.Result `json:"plan"`
	Path        string          `json:"path,omitempty"`
	DocumentRef string          `json:"documentRef,omitempty"`
	ReportRef   string          `json:"reportRef,omitempty"`
}

// Render implements Renderer
func (s PlanSummary) Render(st Styles) string {
	var b strings.Builder
	p := s.Plan

	b.WriteString(st.Title.Render("Plan "+p.ID) + "\n\n")
	writeField(&b, st, "Contract", shortHash(p.ContractHash))
	writeField(&b, st, "Nodes", fmt.Sprint(len(p.Nodes)))
	writeField(&b, st, "Edges", fmt.Sprint(len(p.Edges)))
	writeField(&b, st, "Capacity", fmt.Sprintf("%d tokens per node", p.Budget.Capacity))
	if s.Path != "" {
		writeField(&b, st, "Written", s.Path)
	}
	if s.DocumentRef != "" {
		writeField(&b, st, "Stored", s.DocumentRef)
		writeField(&b, st, "Report", s.ReportRef)
	}
	b.WriteString("\n")

	for i, n := range p.Nodes {
		line := fmt.Sprintf("%3d  %-12s %-56s %7d tok  ccs %5.1f  x%d",
			i, n.Phase, truncate(n.Title, 56), n.TokenBudget, n.Complexity.CCS, n.Complexity.RecommendedSubtasks)
		if n.TokenBudget > p.Budget.Capacity {
			line = st.Error.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(windowLine(st, p.Report.Window))
	return b.String()
}

// ReportView is the text view of a plan report
type ReportView struct {
	Report planner.Report
}

// MarshalJSON emits the bare report
func (v ReportView) MarshalJSON() ([]byte, error) { return json.Marshal(v.Report) }

// Render implements Renderer
func (v ReportView) Render(st Styles) string {
	r := v.Report
	var b strings.Builder

	b.WriteString(st.Title.Render("Plan report "+r.PlanID) + "\n\n")

	phases := make([]string, 0, len(r.NodesByPhase))
	for _, pc := range r.NodesByPhase {
		phases = append(phases, fmt.Sprintf("%s=%d", pc.Phase, pc.Count))
	}
	writeField(&b, st, "Nodes by phase", strings.Join(phases, " "))
	writeField(&b, st, "DAG", fmt.Sprintf("depth %d, max width %d, %d edges", r.DAG.Depth, r.DAG.MaxWidth, r.DAG.Edges))
	writeField(&b, st, "Planned tokens", fmt.Sprintf("%d (capacity %d per node)", r.Tokens.Planned, r.Tokens.Capacity))
	writeField(&b, st, "CCS", fmt.Sprintf("mean %.2f, p90 %.2f, confidence %.2f", r.CCS.Mean, r.CCS.P90, r.CCS.ConfidenceMean))
	writeField(&b, st, "CCS bands", fmt.Sprintf("0-40: %d  41-80: %d  81-100: %d", r.CCS.Low, r.CCS.Medium, r.CCS.High))
	writeField(&b, st, "Coverage", fmt.Sprintf("%d/%d operations", r.Coverage.Covered, r.Coverage.Total))
	if len(r.Coverage.Missing) > 0 {
		writeField(&b, st, "Missing", st.Error.Render(strings.Join(r.Coverage.Missing, ", ")))
	}
	b.WriteString("\n")
	b.WriteString(windowLine(st, r.Window))
	return st.Box.Render(strings.TrimRight(b.String(), "\n"))
}

func windowLine(st Styles, w planner.WindowStats) string {
	switch {
	case w.FloorExceedsCapacity:
		return st.Error.Render("✗ token budget floor exceeds capacity; every node violates the window")
	case !w.Compliant:
		return st.Warning.Render(fmt.Sprintf("⚠ %d node(s) exceed capacity: %v", len(w.Violations), w.Violations))
	default:
		return st.Success.Render(fmt.Sprintf("✓ all nodes fit the window (%.0f%% headroom)", w.HeadroomPct*100))
	}
}

func writeField(b *strings.Builder, st Styles, label, value string) {
	b.WriteString(st.Label.Render(fmt.Sprintf("%-15s", label+":")) + " " + st.Value.Render(value) + "\n")
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
