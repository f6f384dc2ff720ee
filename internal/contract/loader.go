package contract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/zeebo/blake3"

	tgerrors "github.com/felixgeelhaar/taskgraph/internal/errors"
)

const schemaRefPrefix = "#/components/schemas/"

// methodOrder fixes the order operations are read from a path item
var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"}

// Load reads, validates and flattens an OpenAPI document from disk
func Load(ctx context.Context, path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tgerrors.NewFileNotFoundError(path)
		}
		return nil, tgerrors.Wrap(tgerrors.ErrCodeFileReadFailed, fmt.Sprintf("read contract file: %s", path), err)
	}

	return parse(ctx, data, path)
}

// Parse validates and flattens an OpenAPI document held in memory (JSON or YAML)
func Parse(ctx context.Context, data []byte) (*Contract, error) {
	return parse(ctx, data, "<inline>")
}

func parse(ctx context.Context, data []byte, source string) (*Contract, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, tgerrors.NewContractInvalidError(source, err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, tgerrors.NewContractInvalidError(source, err)
	}

	return FromDocument(doc)
}

// FromDocument flattens a loaded OpenAPI document into a Contract.
// Paths are read in lexical order and methods in methodOrder so the
// result does not depend on map iteration.
func FromDocument(doc *openapi3.T) (*Contract, error) {
	c := &Contract{
		Operations: []Operation{},
		Schemas:    []Schema{},
	}

	seen := make(map[string]bool)
	if doc.Paths != nil {
		items := doc.Paths.Map()
		paths := make([]string, 0, len(items))
		for p := range items {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		for _, p := range paths {
			item := items[p]
			if item == nil {
				continue
			}
			byMethod := item.Operations()
			for _, method := range methodOrder {
				op, ok := byMethod[method]
				if !ok || op == nil {
					continue
				}

				id := op.OperationID
				if id == "" {
					id = fallbackOperationID(method, p)
				}
				if seen[id] {
					return nil, tgerrors.NewDuplicateOperationError(id)
				}
				seen[id] = true

				summary := op.Summary
				if summary == "" {
					summary = op.Description
				}

				c.Operations = append(c.Operations, Operation{
					Path:        p,
					Method:      method,
					OperationID: id,
					Summary:     summary,
					Tags:        slices.Clone(op.Tags),
					SchemaRefs:  operationSchemaRefs(op),
				})
			}
		}
	}

	if doc.Components != nil {
		names := make([]string, 0, len(doc.Components.Schemas))
		for name := range doc.Components.Schemas {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			definition, err := json.Marshal(doc.Components.Schemas[name])
			if err != nil {
				return nil, tgerrors.Wrap(tgerrors.ErrCodeContractInvalid, fmt.Sprintf("encode schema %s", name), err)
			}
			c.Schemas = append(c.Schemas, Schema{Name: name, Definition: definition})
		}
	}

	hash, err := Hash(doc)
	if err != nil {
		return nil, err
	}
	c.Hash = hash

	return c, nil
}

// Hash computes the blake3 hash of the document's canonical JSON form
func Hash(doc *openapi3.T) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal contract: %w", err)
	}

	// Round-trip through a generic value so object keys come out sorted
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("canonicalize contract: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("canonicalize contract: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash contract: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

func fallbackOperationID(method, path string) string {
	trimmed := strings.Trim(path, "/")
	return strings.ToLower(method) + "_" + strings.ReplaceAll(trimmed, "/", "_")
}

// operationSchemaRefs collects component schema names used by an operation
func operationSchemaRefs(op *openapi3.Operation) []string {
	set := make(map[string]bool)

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		collectContentRefs(op.RequestBody.Value.Content, set)
	}
	if op.Responses != nil {
		for _, resp := range op.Responses.Map() {
			if resp != nil && resp.Value != nil {
				collectContentRefs(resp.Value.Content, set)
			}
		}
	}

	if len(set) == 0 {
		return nil
	}
	refs := make([]string, 0, len(set))
	for name := range set {
		refs = append(refs, name)
	}
	sort.Strings(refs)
	return refs
}

func collectContentRefs(content openapi3.Content, set map[string]bool) {
	for _, media := range content {
		if media == nil {
			continue
		}
		if name := schemaRefName(media.Schema); name != "" {
			set[name] = true
		}
	}
}

func schemaRefName(ref *openapi3.SchemaRef) string {
	if ref == nil {
		return ""
	}
	if strings.HasPrefix(ref.Ref, schemaRefPrefix) {
		return strings.TrimPrefix(ref.Ref, schemaRefPrefix)
	}
	if ref.Value != nil && ref.Value.Items != nil {
		return schemaRefName(ref.Value.Items)
	}
	return ""
}
