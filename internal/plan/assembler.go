package plan

import (
	"github.com/felixgeelhaar/taskgraph/internal/contract"
	"github.com/felixgeelhaar/taskgraph/internal/domain"
	"github.com/felixgeelhaar/taskgraph/internal/prd"
)

// Edge descriptions emitted by the assembler
const (
	EdgeRepoReady       = "Repo ready"
	EdgeSchemaAvailable = "DB schema available"
	EdgeAPIReady        = "API ready"
	EdgeBackendComplete = "Backend complete"
	EdgeUIReady         = "UI ready"
	EdgeMigrationsReady = "DB migrations ready"
	EdgeTestsGreen      = "Tests green"
)

// provisioningPosition is always the first node of an assembled plan
const provisioningPosition = 0

// span is a contiguous run of node positions belonging to one phase
type span struct {
	start, end int
}

func (s span) empty() bool { return s.end <= s.start }

func appendPhase(nodes *[]NodeSpec, phase []NodeSpec) span {
	start := len(*nodes)
	*nodes = append(*nodes, phase...)
	return span{start: start, end: len(*nodes)}
}

// workPhase is a phase whose nodes gate the next non-empty phase
type workPhase struct {
	span         span
	description  string
	artifactType string
}

// Build assembles the plan graph in fixed phase order:
// provisioning, database, backend, frontend, test, package.
//
// Every node of a work phase links to every node of the next non-empty
// work phase. The test node depends on all database, backend and frontend
// nodes and the package node depends on the test node. Node and edge order
// depend only on the contract and PRD content.
func Build(c contract.Contract, f prd.Features) BuildResult {
	nodes := []NodeSpec{provisioningNode()}
	edges := []EdgeSpec{}

	provision := span{start: provisioningPosition, end: provisioningPosition + 1}
	db := appendPhase(&nodes, DatabaseNodes(c))
	be := appendPhase(&nodes, BackendNodes(c, f))
	fe := appendPhase(&nodes, FrontendNodes(c, f))

	chain := []workPhase{
		{span: provision, description: EdgeRepoReady, artifactType: "repo-scaffold"},
		{span: db, description: EdgeSchemaAvailable, artifactType: "schema"},
		{span: be, description: EdgeAPIReady, artifactType: "api"},
		{span: fe},
	}
	for i := 0; i < len(chain)-1; i++ {
		from := chain[i]
		if from.span.empty() {
			continue
		}
		for j := i + 1; j < len(chain); j++ {
			to := chain[j].span
			// Skip empty phases: with no schemas, provisioning links straight
			// to backend under the "Repo ready" label.
			if to.empty() {
				continue
			}
			edges = appendCartesian(edges, from.span, to, from.description, from.artifactType)
			break
		}
	}

	testIdx := len(nodes)
	nodes = append(nodes, testNode(c, f))

	edges = appendCartesian(edges, be, span{testIdx, testIdx + 1}, EdgeBackendComplete, "")
	edges = appendCartesian(edges, fe, span{testIdx, testIdx + 1}, EdgeUIReady, "")
	edges = appendCartesian(edges, db, span{testIdx, testIdx + 1}, EdgeMigrationsReady, "")
	if db.empty() && be.empty() && fe.empty() {
		edges = append(edges, EdgeSpec{From: provisioningPosition, To: testIdx, Description: EdgeRepoReady, ArtifactType: "repo-scaffold"})
	}

	packageIdx := len(nodes)
	nodes = append(nodes, packageNode())
	edges = append(edges, EdgeSpec{From: testIdx, To: packageIdx, Description: EdgeTestsGreen, ArtifactType: "test-report"})

	return BuildResult{Nodes: nodes, Edges: edges}
}

// appendCartesian links every node in from to every node in to,
// iterating targets in the outer loop
func appendCartesian(edges []EdgeSpec, from, to span, description, artifactType string) []EdgeSpec {
	for t := to.start; t < to.end; t++ {
		for s := from.start; s < from.end; s++ {
			edges = append(edges, EdgeSpec{From: s, To: t, Description: description, ArtifactType: artifactType})
		}
	}
	return edges
}

func provisioningNode() NodeSpec {
	return NodeSpec{
		Phase:       domain.PhaseProvisioning,
		Title:       "Request: provision repository scaffold",
		Description: "Request infra to prepare Git repository scaffold with CI/CD hooks and base directories.",
		Instructions: Instructions{
			Tasks: []string{
				"Provision repository with service skeleton",
				"Set up infrastructure IaC directories",
				"Bootstrap database migrations and container images",
			},
			ContractOps: []string{},
		},
		AcceptanceCriteria: []string{
			"Repository skeleton ready with service entrypoint",
			"Continuous integration pipeline stub available",
			"Secrets placeholders documented",
		},
		ArtifactsOut: []Artifact{{Type: "repo-scaffold", Description: "Repository template request"}},
	}
}

func testNode(c contract.Contract, f prd.Features) NodeSpec {
	reqs := allConstraintRefs(f)
	return NodeSpec{
		Phase:       domain.PhaseTest,
		Title:       "Construct integration and contract tests",
		Description: "Author integration tests ensuring API and data contract coverage with regression hooks.",
		Instructions: Instructions{
			Tasks: []string{
				"Generate contract conformance tests",
				"Create end-to-end scenarios across phases",
				"Produce coverage diff artifact",
			},
			ContractOps:     c.OperationIDs(),
			RequirementRefs: reqs,
		},
		AcceptanceCriteria: []string{
			"100% contract operations exercised",
			"Regression matrix documented",
			"Test artifacts stored with hash references",
		},
		ArtifactsOut:    []Artifact{{Type: "test-report", Description: "Contract coverage report"}},
		RequirementRefs: reqs,
	}
}

func packageNode() NodeSpec {
	return NodeSpec{
		Phase:       domain.PhasePackage,
		Title:       "Finalize deployment package",
		Description: "Assemble deployment manifests, chart updates, and release plan with rollback procedures.",
		Instructions: Instructions{
			Tasks: []string{
				"Produce deployment values and infrastructure diffs",
				"Update metrics dashboards",
				"Document release readiness and runbooks",
			},
			ContractOps: []string{},
		},
		AcceptanceCriteria: []string{
			"Deployment artifacts content-hashed and stored",
			"Operational readiness checklist signed",
			"Audit log entry generated with correlation ID",
		},
		ArtifactsIn: []Artifact{{Type: "test-report", Description: "Green test run"}},
	}
}
