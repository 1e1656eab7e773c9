// Package walker enumerates repository files beneath a root, applying size
// limits and path filtering, and returns a deterministically sorted list.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quantmind-br/gitparse-go/internal/config"
	"github.com/quantmind-br/gitparse-go/internal/domain"
	"github.com/quantmind-br/gitparse-go/internal/filter"
	"github.com/quantmind-br/gitparse-go/internal/utils"
)

// Walker traverses a repository root. Traversal errors on individual entries
// are logged and skipped; they never abort a scan.
type Walker struct {
	root        string
	maxFileSize int64
	filter      *filter.PathFilter
	logger      *utils.Logger
}

// New creates a Walker for the given absolute root directory.
func New(root string, cfg config.ExtractionConfig, logger *utils.Logger) *Walker {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	var exclude []string
	if cfg.ExcludePatterns != nil {
		exclude = cfg.ExcludePatterns
	}
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = config.DefaultMaxFileSize
	}
	return &Walker{
		root:        root,
		maxFileSize: maxSize,
		filter:      filter.New(exclude, cfg.IncludePatterns),
		logger:      logger.WithComponent("walker"),
	}
}

// Walk returns the sorted slash-separated paths of all included files,
// relative to the repository root.
func (w *Walker) Walk() ([]string, error) {
	return w.walk(w.root)
}

// WalkDir walks only the given subdirectory (relative to the root). Returned
// paths remain relative to the repository root. A missing or escaping
// subdirectory yields domain.ErrDirectoryNotFound.
func (w *Walker) WalkDir(subdir string) ([]string, error) {
	start, err := w.resolveSubdir(subdir)
	if err != nil {
		return nil, err
	}
	return w.walk(start)
}

func (w *Walker) resolveSubdir(subdir string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(subdir))
	if clean == "." {
		return w.root, nil
	}
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes the repository root", domain.ErrDirectoryNotFound, subdir)
	}

	start := filepath.Join(w.root, clean)
	info, err := os.Stat(start)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", domain.ErrDirectoryNotFound, subdir)
	}
	return start, nil
}

func (w *Walker) walk(start string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Permission problems and races with deletion are skipped.
			w.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			// Subtrees a directory-level pattern unambiguously excludes are
			// skipped wholesale; the result set is identical to filtering
			// every file individually.
			if rel != "." && w.filter.ExcludesDir(rel) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			w.logger.Warn().Err(infoErr).Str("path", path).Msg("Skipping unstatable file")
			return nil
		}
		if info.Size() > w.maxFileSize {
			return nil
		}
		if !w.filter.ShouldInclude(rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
