// Package deps parses dependency manifests (requirements.txt, pyproject.toml,
// package.json) into normalized dependency records. Parsers tolerate
// malformed entries: a bad line becomes an unknown-kind record and an
// unreadable file yields an empty result, never an error for the aggregate.
package deps

import (
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quantmind-br/gitparse-go/internal/domain"
	"github.com/quantmind-br/gitparse-go/internal/utils"
)

// Descriptor binds manifest filename patterns to a parse function. The
// registry is a fixed-order slice; the first matching descriptor wins.
type Descriptor struct {
	Name     string
	Patterns []string
	Parse    func(absPath, relPath string, logger *utils.Logger) domain.ManifestResult
}

// Registry returns the parser descriptors in registration order.
func Registry() []Descriptor {
	return []Descriptor{
		{
			Name:     "requirements.txt",
			Patterns: []string{"requirements*.txt", "requirements/*.txt"},
			Parse:    parseRequirements,
		},
		{
			Name:     "poetry",
			Patterns: []string{"pyproject.toml"},
			Parse:    parsePyproject,
		},
		{
			Name:     "nodejs",
			Patterns: []string{"package.json"},
			Parse:    parsePackageJSON,
		},
	}
}

// Matches reports whether the descriptor claims the given relative path.
// Patterns without a separator match the base name only.
func (d Descriptor) Matches(relPath string) bool {
	base := path.Base(relPath)
	for _, pattern := range d.Patterns {
		var ok bool
		var err error
		if path.Dir(pattern) != "." {
			ok, err = doublestar.Match("**/"+pattern, relPath)
			if err == nil && !ok {
				ok, err = doublestar.Match(pattern, relPath)
			}
		} else {
			ok, err = path.Match(pattern, base)
		}
		if err == nil && ok {
			return true
		}
	}
	return false
}

// ParseAll runs every matching parser over the walked file list and returns
// one result per manifest file, keyed by relative path. The three canonical
// manifest filenames are always present, defaulting to empty results, so a
// missing or unparsable file never hides a manifest type.
func ParseAll(root string, files []string, logger *utils.Logger) map[string]domain.ManifestResult {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	logger = logger.WithComponent("deps")

	registry := Registry()

	results := map[string]domain.ManifestResult{
		"requirements.txt": {Manifest: "requirements.txt", Records: []domain.DependencyRecord{}},
		"pyproject.toml":   {Manifest: "poetry", Records: []domain.DependencyRecord{}},
		"package.json":     {Manifest: "nodejs", Records: []domain.DependencyRecord{}},
	}

	for _, rel := range files {
		for _, d := range registry {
			if !d.Matches(rel) {
				continue
			}
			abs := filepath.Join(root, filepath.FromSlash(rel))
			results[rel] = d.Parse(abs, rel, logger)
			break
		}
	}

	return results
}
