// Package filter decides whether repository files are included in a scan,
// based on size-independent glob pattern matching against slash-separated
// paths relative to the repository root.
package filter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludePatterns is the built-in exclude set applied when the caller
// supplies no explicit exclude patterns. Callers override by providing their
// own list, which replaces this set rather than merging with it.
var DefaultExcludePatterns = []string{
	// Version control
	".git/**",
	".svn/**",
	".hg/**",
	".bzr/**",

	// Python
	"**/__pycache__/**",
	"**/*.pyc",
	"**/*.pyo",
	"**/*.pyd",
	"**/.pytest_cache/**",
	"**/.coverage",
	"**/.tox/**",
	"**/.venv/**",
	"**/venv/**",
	"**/env/**",

	// Node.js
	"**/node_modules/**",
	"**/bower_components/**",
	"**/.npm/**",

	// IDEs and editors
	"**/.idea/**",
	"**/.vscode/**",
	"**/.vs/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",

	// Build and distribution
	"**/build/**",
	"**/dist/**",
	"**/*.egg-info/**",

	// Logs and databases
	"**/*.log",
	"**/*.sqlite",
	"**/*.db",

	// OS files
	"**/.DS_Store",
	"**/Thumbs.db",

	// Large media and archives
	"**/*.mp4",
	"**/*.mov",
	"**/*.avi",
	"**/*.wmv",
	"**/*.flv",
	"**/*.mp3",
	"**/*.wav",
	"**/*.zip",
	"**/*.tar",
	"**/*.gz",
	"**/*.rar",

	// Documentation builds
	"**/docs/_build/**",
	"**/site/**",

	// Temporary files
	"**/tmp/**",
	"**/temp/**",
}

// PathFilter decides whether a file should be included, given glob
// include/exclude patterns. Exclude patterns always win. It performs no I/O.
type PathFilter struct {
	exclude []string
	include []string
}

// New creates a PathFilter. A nil exclude list selects the built-in default
// exclude set; an empty include list means include-all.
func New(exclude, include []string) *PathFilter {
	if exclude == nil {
		exclude = DefaultExcludePatterns
	}
	return &PathFilter{exclude: exclude, include: include}
}

// ShouldInclude reports whether the slash-separated relative path passes the
// configured patterns.
func (f *PathFilter) ShouldInclude(relPath string) bool {
	relPath = normalize(relPath)

	for _, pattern := range f.exclude {
		if match(pattern, relPath) {
			return false
		}
	}

	if len(f.include) > 0 {
		for _, pattern := range f.include {
			if match(pattern, relPath) {
				return true
			}
		}
		return false
	}

	return true
}

// ExcludesDir reports whether every path beneath the given directory is
// guaranteed to be rejected, allowing a walker to skip the whole subtree.
// Only patterns of the form "<prefix>/**" can give that guarantee.
func (f *PathFilter) ExcludesDir(relDir string) bool {
	relDir = normalize(relDir)
	if relDir == "" || relDir == "." {
		return false
	}

	for _, pattern := range f.exclude {
		prefix, ok := strings.CutSuffix(pattern, "/**")
		if !ok || prefix == "" {
			continue
		}
		if match(prefix, relDir) {
			return true
		}
	}
	return false
}

func match(pattern, relPath string) bool {
	ok, err := doublestar.Match(pattern, relPath)
	if err != nil {
		// Invalid patterns are rejected at config validation; treat a bad
		// pattern here as a non-match.
		return false
	}
	return ok
}

func normalize(relPath string) string {
	relPath = strings.ReplaceAll(relPath, "\\", "/")
	return strings.TrimPrefix(relPath, "./")
}
