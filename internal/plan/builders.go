package plan

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskgraph/internal/contract"
	"github.com/felixgeelhaar/taskgraph/internal/domain"
	"github.com/felixgeelhaar/taskgraph/internal/prd"
)

// DatabaseNodes creates one migration node per contract schema
func DatabaseNodes(c contract.Contract) []NodeSpec {
	nodes := make([]NodeSpec, 0, len(c.Schemas))
	for _, schema := range c.Schemas {
		var ops []string
		for _, op := range c.Operations {
			if op.References(schema.Name) || mentionsSchema(op, schema.Name) {
				ops = append(ops, op.OperationID)
			}
		}

		nodes = append(nodes, NodeSpec{
			Phase:       domain.PhaseDatabase,
			Title:       fmt.Sprintf("Design and migrate %s table", schema.Name),
			Description: fmt.Sprintf("Create migrations and data model for %s.", schema.Name),
			Instructions: Instructions{
				Tasks: []string{
					"Define table columns and constraints",
					"Create migration scripts with reversible operations",
					"Document seed data requirements if any",
				},
				ContractOps:      nonNil(ops),
				SchemaDefinition: schema.Definition,
				Extensions:       Extensions{}.With("entity", schema.Name),
			},
			AcceptanceCriteria: []string{
				fmt.Sprintf("Migration covering %s entity is generated", schema.Name),
				"Unit tests cover migration up/down",
				"Context card emitted summarizing schema",
			},
			ArtifactsOut: []Artifact{{Type: "migration", Description: fmt.Sprintf("%s schema migration", schema.Name)}},
			ContractRefs: []string{"schema:" + schema.Name},
		})
	}
	return nodes
}

// mentionsSchema reports whether any textual field of op names the schema
func mentionsSchema(op contract.Operation, schema string) bool {
	needle := strings.ToLower(schema)
	fields := append([]string{op.Path, op.Method, op.OperationID, op.Summary}, op.Tags...)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// BackendNodes creates one handler node per primary tag, in first-seen tag order
func BackendNodes(c contract.Contract, f prd.Features) []NodeSpec {
	groups := NewOrderedGroups[string, contract.Operation]()
	for _, op := range c.Operations {
		groups.Add(op.PrimaryTag(), op)
	}

	nodes := make([]NodeSpec, 0, groups.Len())
	for _, tag := range groups.Keys() {
		ops, _ := groups.Get(tag)
		ids := make([]string, 0, len(ops))
		refs := make([]string, 0, len(ops))
		terms := make([]string, 0, len(ops)+1)
		if tag != contract.DefaultTag {
			terms = append(terms, tag)
		}
		for _, op := range ops {
			ids = append(ids, op.OperationID)
			refs = append(refs, "operation:"+op.OperationID)
			terms = append(terms, op.OperationID)
		}
		reqs := constraintRefs(f, terms...)

		nodes = append(nodes, NodeSpec{
			Phase:       domain.PhaseBackend,
			Title:       fmt.Sprintf("Implement backend handlers for %s", tag),
			Description: fmt.Sprintf("Implement API handlers covering operations: %s", strings.Join(ids, ", ")),
			Instructions: Instructions{
				Tasks: []string{
					"Implement route handlers aligned with contract",
					"Integrate with database models and validations",
					"Emit context cards upon completion",
				},
				ContractOps:     ids,
				RequirementRefs: reqs,
				Extensions:      Extensions{}.With("tag", tag),
			},
			AcceptanceCriteria: []string{
				"All endpoints return contract-compliant schemas",
				"Unit tests cover success and error paths",
				"Token budget respected with context reuse",
			},
			ArtifactsOut:    []Artifact{{Type: "service", Description: fmt.Sprintf("%s handlers", tag)}},
			ContractRefs:    refs,
			RequirementRefs: reqs,
		})
	}
	return nodes
}

var uiBaseTasks = []string{
	"Establish design system primitives",
	"Implement API client bound to contract schemas",
	"Ensure layout covers responsive breakpoints",
}

// FrontendNodes creates a shared foundation node plus one node per operation.
// It returns nil unless the PRD asks for a UI and the contract has operations.
func FrontendNodes(c contract.Contract, f prd.Features) []NodeSpec {
	if !f.HasUI || len(c.Operations) == 0 {
		return nil
	}

	nodes := make([]NodeSpec, 0, len(c.Operations)+1)
	nodes = append(nodes, NodeSpec{
		Phase:       domain.PhaseFrontend,
		Title:       "Create shared frontend foundation",
		Description: "Set up design system, routing shell, and API client",
		Instructions: Instructions{
			Tasks:       append([]string(nil), uiBaseTasks...),
			ContractOps: c.OperationIDs(),
		},
		AcceptanceCriteria: []string{
			"Design tokens defined",
			"API client generated from contract",
			"Context card summarizing frontend primitives emitted",
		},
		ArtifactsOut: []Artifact{{Type: "ui-shell", Description: "Routing shell and API client"}},
	})

	for _, op := range c.Operations {
		surface := op.Summary
		if surface == "" {
			surface = op.OperationID
		}
		terms := []string{op.OperationID}
		if op.Summary != "" {
			terms = append(terms, op.Summary)
		}
		reqs := constraintRefs(f, terms...)

		nodes = append(nodes, NodeSpec{
			Phase:       domain.PhaseFrontend,
			Title:       fmt.Sprintf("Build UI flow for %s", op.OperationID),
			Description: fmt.Sprintf("Implement UI to surface %s", surface),
			Instructions: Instructions{
				Tasks: []string{
					"Create route and view",
					"Integrate API client with optimistic states",
					"Instrument analytics hooks",
				},
				ContractOps:     []string{op.OperationID},
				RequirementRefs: reqs,
				Extensions:      Extensions{}.With("method", op.Method).With("path", op.Path),
			},
			AcceptanceCriteria: []string{
				"UI renders contract-backed data",
				"Error and loading states covered",
				"Accessibility checklist satisfied",
			},
			ContractRefs:    []string{"operation:" + op.OperationID},
			RequirementRefs: reqs,
		})
	}
	return nodes
}

// constraintRefs returns "constraint:<n>" refs (1-based) for every PRD
// constraint that mentions one of the terms
func constraintRefs(f prd.Features, terms ...string) []string {
	var refs []string
	for i, sentence := range f.Constraints {
		for _, term := range terms {
			if prd.Mentions(sentence, term) {
				refs = append(refs, fmt.Sprintf("constraint:%d", i+1))
				break
			}
		}
	}
	return refs
}

func allConstraintRefs(f prd.Features) []string {
	var refs []string
	for i := range f.Constraints {
		refs = append(refs, fmt.Sprintf("constraint:%d", i+1))
	}
	return refs
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
