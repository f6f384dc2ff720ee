package contract

import "encoding/json"

// DefaultTag groups operations that carry no tags
const DefaultTag = "default"

// Contract is the validated API contract the planner works from
type Contract struct {
	Operations []Operation `json:"operations"`
	Schemas    []Schema    `json:"schemas"`
	Hash       string      `json:"hash"`
}

// Operation is a single path + method pair from the contract
type Operation struct {
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	OperationID string   `json:"operationId"`
	Summary     string   `json:"summary,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	// SchemaRefs lists component schemas referenced by the request or responses
	SchemaRefs []string `json:"schemaRefs,omitempty"`
}

// Schema is a named component schema with its JSON definition
type Schema struct {
	Name       string          `json:"name"`
	Definition json.RawMessage `json:"definition,omitempty"`
}

// PrimaryTag returns the first tag, or DefaultTag when the operation is untagged
func (o Operation) PrimaryTag() string {
	if len(o.Tags) == 0 || o.Tags[0] == "" {
		return DefaultTag
	}
	return o.Tags[0]
}

// References reports whether the operation refers to the named schema
func (o Operation) References(schema string) bool {
	for _, ref := range o.SchemaRefs {
		if ref == schema {
			return true
		}
	}
	return false
}

// OperationIDs returns operation ids in contract order
func (c Contract) OperationIDs() []string {
	ids := make([]string, 0, len(c.Operations))
	for _, op := range c.Operations {
		ids = append(ids, op.OperationID)
	}
	return ids
}
