package prd

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	tgerrors "github.com/felixgeelhaar/taskgraph/internal/errors"
)

// Features is the structured view of a PRD the planner consumes
type Features struct {
	Headings    []string `json:"headings"`
	Glossary    []string `json:"glossary"`
	Constraints []string `json:"constraints"`
	HasUI       bool     `json:"hasUi"`
}

var constraintWords = map[string]bool{
	"must":   true,
	"shall":  true,
	"should": true,
}

var uiWords = map[string]bool{
	"ui":        true,
	"screen":    true,
	"frontend":  true,
	"interface": true,
	"page":      true,
	"dashboard": true,
	"button":    true,
	"form":      true,
}

// Load reads and parses a PRD markdown file
func Load(path string) (Features, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Features{}, tgerrors.NewFileNotFoundError(path)
		}
		return Features{}, tgerrors.Wrap(tgerrors.ErrCodeFileReadFailed, fmt.Sprintf("read PRD file: %s", path), err)
	}
	return Parse(string(data)), nil
}

// Parse extracts headings, glossary entries, constraint sentences and the
// UI flag from PRD markdown. Keyword matching is whole-word and
// case-insensitive.
func Parse(text string) Features {
	f := Features{
		Headings:    []string{},
		Glossary:    []string{},
		Constraints: []string{},
	}

	inGlossary := false
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		isHeading := strings.HasPrefix(stripped, "#")
		switch {
		case isHeading:
			heading := strings.TrimLeft(stripped, "# ")
			f.Headings = append(f.Headings, heading)
			inGlossary = startsWithGlossary(heading)
		case startsWithGlossary(stripped):
			inGlossary = true
			continue
		case inGlossary && strings.Contains(stripped, ":"):
			f.Glossary = append(f.Glossary, stripped)
		}

		words := words(stripped)
		if containsAny(words, constraintWords) {
			f.Constraints = append(f.Constraints, stripped)
		}
		if containsAny(words, uiWords) {
			f.HasUI = true
		}
	}

	return f
}

func startsWithGlossary(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "glossary")
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsAny(words []string, set map[string]bool) bool {
	for _, w := range words {
		if set[w] {
			return true
		}
	}
	return false
}

// Mentions reports whether text contains term as a whole word, ignoring case
func Mentions(text, term string) bool {
	needle := words(term)
	if len(needle) == 0 {
		return false
	}
	hay := words(text)
	for i := 0; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
