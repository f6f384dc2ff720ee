package plan

import (
	"encoding/json"
	"slices"

	"github.com/felixgeelhaar/taskgraph/internal/domain"
)

// NodeSpec describes one unit of planned work before it is persisted.
// Positions in a []NodeSpec are stage-local; see EdgeSpec.
type NodeSpec struct {
	Phase              domain.Phase `json:"phase"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Instructions       Instructions `json:"instructions"`
	AcceptanceCriteria []string     `json:"acceptanceCriteria"`
	ArtifactsIn        []Artifact   `json:"artifactsIn,omitempty"`
	ArtifactsOut       []Artifact   `json:"artifactsOut,omitempty"`
	ContractRefs       []string     `json:"contractRefs,omitempty"`
	RequirementRefs    []string     `json:"requirementRefs,omitempty"`
}

// Instructions is the materialized work order handed to an executor
type Instructions struct {
	Tasks            []string        `json:"tasks"`
	ContractOps      []string        `json:"contractOps"`
	SchemaDefinition json.RawMessage `json:"schemaDefinition,omitempty"`
	RequirementRefs  []string        `json:"requirementRefs,omitempty"`
	Extensions       Extensions      `json:"extensions,omitzero"`
}

// Artifact describes an input or output produced around a node
type Artifact struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// EdgeSpec is a "must happen before" relation between two node positions.
// From and To index the node list of the stage that produced the edge and
// must be remapped whenever that list changes cardinality.
type EdgeSpec struct {
	From         int    `json:"from"`
	To           int    `json:"to"`
	Description  string `json:"description,omitempty"`
	ArtifactType string `json:"artifactType,omitempty"`
}

// BuildResult is the graph produced by the assembler
type BuildResult struct {
	Nodes []NodeSpec `json:"nodes"`
	Edges []EdgeSpec `json:"edges"`
}

// IndexMap maps each original node position to the positions that replaced it
type IndexMap [][]int

// Identity returns a mapping where every node maps to itself
func Identity(n int) IndexMap {
	m := make(IndexMap, n)
	for i := range m {
		m[i] = []int{i}
	}
	return m
}

// Lookup returns the replacement positions for original index i, or nil
func (m IndexMap) Lookup(i int) []int {
	if i < 0 || i >= len(m) {
		return nil
	}
	return m[i]
}

// Clone returns a deep copy of the node
func (n NodeSpec) Clone() NodeSpec {
	out := n
	out.Instructions = n.Instructions.Clone()
	out.AcceptanceCriteria = slices.Clone(n.AcceptanceCriteria)
	out.ArtifactsIn = slices.Clone(n.ArtifactsIn)
	out.ArtifactsOut = slices.Clone(n.ArtifactsOut)
	out.ContractRefs = slices.Clone(n.ContractRefs)
	out.RequirementRefs = slices.Clone(n.RequirementRefs)
	return out
}

// Clone returns a deep copy of the instructions
func (i Instructions) Clone() Instructions {
	out := i
	out.Tasks = slices.Clone(i.Tasks)
	out.ContractOps = slices.Clone(i.ContractOps)
	out.SchemaDefinition = slices.Clone(i.SchemaDefinition)
	out.RequirementRefs = slices.Clone(i.RequirementRefs)
	return out
}

// Extensions holds phase-specific instruction keys.
// The zero value is empty; values are only added through With.
type Extensions struct {
	values map[string]string
}

// With returns a copy of e with key set to value
func (e Extensions) With(key, value string) Extensions {
	values := make(map[string]string, len(e.values)+1)
	for k, v := range e.values {
		values[k] = v
	}
	values[key] = value
	return Extensions{values: values}
}

// Get returns the value stored under key
func (e Extensions) Get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Len returns the number of extension keys
func (e Extensions) Len() int {
	return len(e.values)
}

// IsZero lets encoders omit empty extensions
func (e Extensions) IsZero() bool {
	return len(e.values) == 0
}

// MarshalJSON implements json.Marshaler
func (e Extensions) MarshalJSON() ([]byte, error) {
	if e.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e.values)
}

// UnmarshalJSON implements json.Unmarshaler
func (e *Extensions) UnmarshalJSON(data []byte) error {
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	e.values = values
	return nil
}
