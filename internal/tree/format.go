// Package tree renders a sorted file list into one of three presentations:
// a flat path list, an indented markdown outline, or a nested map.
package tree

import (
	"path"
	"strings"

	"github.com/quantmind-br/gitparse-go/internal/domain"
)

// Style selects a tree presentation.
type Style string

const (
	StyleFlattened  Style = "flattened"
	StyleMarkdown   Style = "markdown"
	StyleStructured Style = "structured"
	// StyleDict is an alias for StyleStructured.
	StyleDict Style = "dict"
)

// Format renders files (sorted, slash-separated relative paths) in the given
// style. The result is either []string or map[string]any.
func Format(files []string, style Style) (any, error) {
	switch style {
	case StyleFlattened:
		return Flattened(files), nil
	case StyleMarkdown:
		return Markdown(files), nil
	case StyleStructured, StyleDict:
		return Structured(files), nil
	default:
		return nil, &domain.StyleError{Style: string(style)}
	}
}

// Flattened returns the path list unchanged (input is already sorted).
func Flattened(files []string) []string {
	out := make([]string, len(files))
	copy(out, files)
	return out
}

// Markdown renders one line per file, indented two spaces per directory
// level. Directories are implicit through indentation.
func Markdown(files []string) []string {
	lines := make([]string, 0, len(files))
	for _, file := range files {
		depth := strings.Count(file, "/")
		indent := strings.Repeat("  ", depth)
		lines = append(lines, indent+"- "+path.Base(file))
	}
	return lines
}

// Structured builds a nested map. Each path segment becomes a key;
// files map to nil, directories to nested maps merged across shared prefixes.
func Structured(files []string) map[string]any {
	root := map[string]any{}
	for _, file := range files {
		parts := strings.Split(file, "/")
		current := root
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				next = map[string]any{}
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = nil
	}
	return root
}
