package contract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tgerrors "github.com/felixgeelhaar/taskgraph/internal/errors"
)

func TestLoad(t *testing.T) {
	c, err := Load(context.Background(), filepath.Join("testdata", "widgets.yaml"))
	require.NoError(t, err)

	// Paths sorted lexically, methods in GET, POST order
	require.Len(t, c.Operations, 3)
	assert.Equal(t, []string{"get_health", "listWidgets", "createWidget"}, c.OperationIDs())

	health := c.Operations[0]
	assert.Equal(t, "/health", health.Path)
	assert.Equal(t, "GET", health.Method)
	assert.Equal(t, "Liveness probe", health.Summary, "summary should fall back to description")
	assert.Equal(t, DefaultTag, health.PrimaryTag())
	assert.Empty(t, health.SchemaRefs)

	list := c.Operations[1]
	assert.Equal(t, "widgets", list.PrimaryTag())
	assert.Equal(t, []string{"Widget"}, list.SchemaRefs, "array items should resolve to the component")

	create := c.Operations[2]
	assert.Equal(t, "POST", create.Method)
	assert.True(t, create.References("Widget"))
	assert.False(t, create.References("Gadget"))

	require.Len(t, c.Schemas, 2)
	assert.Equal(t, "Gadget", c.Schemas[0].Name)
	assert.Equal(t, "Widget", c.Schemas[1].Name)
	assert.Contains(t, string(c.Schemas[1].Definition), `"properties"`)

	assert.Len(t, c.Hash, 64)
}

func TestLoad_HashIsStable(t *testing.T) {
	path := filepath.Join("testdata", "widgets.yaml")
	first, err := Load(context.Background(), path)
	require.NoError(t, err)
	second, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.Hash)
}

func TestLoad_HashChangesWithContent(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "widgets.yaml"))
	require.NoError(t, err)

	original, err := Parse(context.Background(), data)
	require.NoError(t, err)

	changed := []byte(string(data) + "\ntags:\n  - name: widgets\n")
	modified, err := Parse(context.Background(), changed)
	require.NoError(t, err)

	assert.NotEqual(t, original.Hash, modified.Hash)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, tgerrors.HasCode(err, tgerrors.ErrCodeFileNotFound))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed yaml", doc: "openapi: [unclosed"},
		{name: "missing info", doc: "openapi: 3.0.3\npaths: {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, tgerrors.HasCode(err, tgerrors.ErrCodeContractInvalid), "got %v", err)
		})
	}
}

func TestParse_DuplicateOperationID(t *testing.T) {
	doc := `openapi: 3.0.3
info: {title: dup, version: "1"}
paths:
  /a:
    get:
      operationId: same
      responses:
        "200": {description: ok}
  /b:
    get:
      operationId: same
      responses:
        "200": {description: ok}
`
	_, err := Parse(context.Background(), []byte(doc))
	require.Error(t, err)
	assert.True(t, tgerrors.HasCode(err, tgerrors.ErrCodeContractDuplicateOp) || tgerrors.HasCode(err, tgerrors.ErrCodeContractInvalid))
}

func TestParse_EmptyPaths(t *testing.T) {
	doc := "openapi: 3.0.3\ninfo: {title: empty, version: \"1\"}\npaths: {}\n"
	c, err := Parse(context.Background(), []byte(doc))
	require.NoError(t, err)
	assert.Empty(t, c.Operations)
	assert.Empty(t, c.Schemas)
	assert.NotNil(t, c.Operations)
}

func TestFallbackOperationID(t *testing.T) {
	tests := []struct {
		method, path, want string
	}{
		{"GET", "/health", "get_health"},
		{"DELETE", "/widgets/{id}/parts", "delete_widgets_{id}_parts"},
		{"POST", "/", "post_"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, fallbackOperationID(tt.method, tt.path))
		})
	}
}
