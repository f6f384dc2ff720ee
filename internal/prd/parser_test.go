package prd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tgerrors "github.com/felixgeelhaar/taskgraph/internal/errors"
)

const samplePRD = `# Overview
The service manages widgets for warehouse staff.

## Requirements
- Operators must be able to list widgets.
- The API shall reject duplicate names.
- Exports should complete within a minute.
- Quick lookups are nice to have.

## Glossary
Widget: a stocked item
SKU: stock keeping unit

# Delivery
The dashboard shows stock levels.
`

func TestParse(t *testing.T) {
	f := Parse(samplePRD)

	assert.Equal(t, []string{"Overview", "Requirements", "Glossary", "Delivery"}, f.Headings)
	assert.Equal(t, []string{"Widget: a stocked item", "SKU: stock keeping unit"}, f.Glossary)
	assert.Equal(t, []string{
		"- Operators must be able to list widgets.",
		"- The API shall reject duplicate names.",
		"- Exports should complete within a minute.",
	}, f.Constraints)
	assert.True(t, f.HasUI, "dashboard mention should set the UI flag")
}

func TestParse_UIDetection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "no ui", text: "# Overview\nThe service manages widgets.", want: false},
		{name: "substring is not a match", text: "Build a quick guide for the build system.", want: false},
		{name: "ui word", text: "Provide a UI for admins.", want: true},
		{name: "form word", text: "Users fill a signup form.", want: true},
		{name: "screen in heading", text: "# Login Screen", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text).HasUI)
		})
	}
}

func TestParse_GlossaryLineMarker(t *testing.T) {
	f := Parse("Glossary\nTerm: meaning\n# Next\nOther: not glossary\n")
	assert.Equal(t, []string{"Term: meaning"}, f.Glossary)
	assert.Equal(t, []string{"Next"}, f.Headings)
}

func TestParse_Empty(t *testing.T) {
	f := Parse("")
	assert.NotNil(t, f.Headings)
	assert.NotNil(t, f.Glossary)
	assert.NotNil(t, f.Constraints)
	assert.Empty(t, f.Headings)
	assert.False(t, f.HasUI)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prd.md")
	require.NoError(t, os.WriteFile(path, []byte(samplePRD), 0600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Headings, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
	assert.True(t, tgerrors.HasCode(err, tgerrors.ErrCodeFileNotFound))
}

func TestMentions(t *testing.T) {
	tests := []struct {
		text, term string
		want       bool
	}{
		{"Operators must list widgets", "widgets", true},
		{"Operators must list widgets", "WIDGETS", true},
		{"Operators must list widgetsx", "widgets", false},
		{"call listWidgets quickly", "listWidgets", true},
		{"user profile page", "user profile", true},
		{"anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, Mentions(tt.text, tt.term))
		})
	}
}
