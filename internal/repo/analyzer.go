// Package repo composes walking, filtering, classification, formatting, and
// manifest parsing into the public repository analysis operations.
package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/quantmind-br/gitparse-go/internal/classify"
	"github.com/quantmind-br/gitparse-go/internal/config"
	"github.com/quantmind-br/gitparse-go/internal/deps"
	"github.com/quantmind-br/gitparse-go/internal/domain"
	"github.com/quantmind-br/gitparse-go/internal/fetcher"
	"github.com/quantmind-br/gitparse-go/internal/stats"
	"github.com/quantmind-br/gitparse-go/internal/tree"
	"github.com/quantmind-br/gitparse-go/internal/utils"
	"github.com/quantmind-br/gitparse-go/internal/walker"
)

// readmeCandidates are checked in order; the first valid UTF-8 text wins.
var readmeCandidates = []string{"README.md", "README.rst", "README.txt", "README"}

// Analyzer is the facade over one resolved repository root. All read
// operations are safe for concurrent callers; the only mutable state is the
// temporary clone released by Close.
type Analyzer struct {
	source    string
	cfg       config.ExtractionConfig
	workers   int
	logger    *utils.Logger
	resolved  *fetcher.Resolved
	closeOnce sync.Once
}

// Options configures an Analyzer.
type Options struct {
	Config  config.ExtractionConfig
	Workers int
	Logger  *utils.Logger
}

// New resolves the source (validating a local directory or cloning a remote
// URL) and returns an Analyzer bound to the resulting root. Callers own the
// returned Analyzer and must Close it to release a temporary clone.
func New(ctx context.Context, source string, opts Options) (*Analyzer, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = config.DefaultWorkers
	}

	resolver := fetcher.NewResolver(fetcher.ResolverOptions{
		TempDir: cfg.TempDir,
		Logger:  logger,
	})
	resolved, err := resolver.Resolve(ctx, source)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		source:   source,
		cfg:      cfg,
		workers:  workers,
		logger:   logger.WithRepo(resolved.Root),
		resolved: resolved,
	}, nil
}

// Root returns the resolved repository root directory.
func (a *Analyzer) Root() string {
	return a.resolved.Root
}

// Close releases the temporary clone, if any. It is idempotent; cleanup
// problems are logged, never surfaced.
func (a *Analyzer) Close() {
	a.closeOnce.Do(func() {
		a.resolved.Cleanup(a.logger)
	})
}

func (a *Analyzer) walker() *walker.Walker {
	return walker.New(a.resolved.Root, a.cfg, a.logger)
}

// FileTree walks the repository and renders the file list in the given style.
func (a *Analyzer) FileTree(style tree.Style) (any, error) {
	files, err := a.walker().Walk()
	if err != nil {
		return nil, err
	}
	return tree.Format(files, style)
}

// DirectoryTree is FileTree scoped to a subdirectory. Paths stay relative to
// the repository root.
func (a *Analyzer) DirectoryTree(dir string, style tree.Style) (any, error) {
	files, err := a.walker().WalkDir(dir)
	if err != nil {
		return nil, err
	}
	return tree.Format(files, style)
}

// Readme returns the repository README content. The candidates README.md,
// README.rst, README.txt, and README are checked in order and the first
// valid UTF-8 text wins; a Latin-1 transcode pass runs only when no
// candidate is valid UTF-8. The bool result is false when no README exists.
func (a *Analyzer) Readme() (string, bool) {
	type candidate struct {
		name string
		data []byte
	}
	var found []candidate

	for _, name := range readmeCandidates {
		path := filepath.Join(a.resolved.Root, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			a.logger.Warn().Err(err).Str("file", name).Msg("Failed to read README candidate")
			continue
		}
		if content, ok := utils.DecodeUTF8(data); ok {
			return content, true
		}
		found = append(found, candidate{name: name, data: data})
	}

	for _, c := range found {
		if content, ok := utils.DecodeText(c.data); ok {
			a.logger.Debug().Str("file", c.name).Msg("README transcoded from legacy encoding")
			return content, true
		}
	}

	return "", false
}

// FileContent returns the decoded content of one file, addressed relative to
// the repository root. The bool result is false, never an error, when the
// path is missing, escapes the root, is a directory, is binary, or does not
// decode as UTF-8 text.
func (a *Analyzer) FileContent(relPath string) (string, bool) {
	abs, ok := a.insideRoot(relPath)
	if !ok {
		a.logger.Warn().Str("path", relPath).Msg("Path escapes repository root")
		return "", false
	}

	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	if classify.IsBinary(abs) {
		return "", false
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		a.logger.Warn().Err(err).Str("path", relPath).Msg("Failed to read file")
		return "", false
	}

	return utils.DecodeUTF8(data)
}

// AllContents returns the decoded contents of every text file that passes
// the filters, keyed by root-relative path. A non-zero maxSize overrides the
// configured size limit; a non-nil excludePatterns list replaces the
// configured excludes. File bodies are read concurrently.
func (a *Analyzer) AllContents(ctx context.Context, maxSize int64, excludePatterns []string) (map[string]string, error) {
	cfg := a.cfg
	if maxSize > 0 {
		cfg.MaxFileSize = maxSize
	}
	if excludePatterns != nil {
		cfg.ExcludePatterns = excludePatterns
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	files, err := walker.New(a.resolved.Root, cfg, a.logger).Walk()
	if err != nil {
		return nil, err
	}

	return a.readAll(ctx, files, a.resolved.Root), nil
}

// DirectoryContents returns decoded text contents beneath a subdirectory,
// keyed by path relative to that subdirectory. A missing subdirectory fails
// with domain.ErrDirectoryNotFound.
func (a *Analyzer) DirectoryContents(ctx context.Context, dir string) (map[string]string, error) {
	files, err := a.walker().WalkDir(dir)
	if err != nil {
		return nil, err
	}

	contents := a.readAll(ctx, files, a.resolved.Root)

	prefix := strings.Trim(filepath.ToSlash(filepath.Clean(dir)), "/") + "/"
	if prefix == "./" {
		return contents, nil
	}
	scoped := make(map[string]string, len(contents))
	for rel, content := range contents {
		scoped[strings.TrimPrefix(rel, prefix)] = content
	}
	return scoped, nil
}

func (a *Analyzer) readAll(ctx context.Context, files []string, root string) map[string]string {
	contents := make(map[string]string, len(files))
	var mu sync.Mutex

	errs := utils.ParallelForEach(ctx, files, a.workers, func(ctx context.Context, rel string) error {
		abs := filepath.Join(root, filepath.FromSlash(rel))

		if classify.IsBinary(abs) {
			return nil
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			a.logger.Warn().Err(err).Str("path", rel).Msg("Failed to read file")
			return nil
		}
		content, ok := utils.DecodeUTF8(data)
		if !ok {
			return nil
		}

		mu.Lock()
		contents[rel] = content
		mu.Unlock()
		return nil
	})
	for _, err := range utils.CollectErrors(errs) {
		a.logger.Warn().Err(err).Msg("Content read failed")
	}

	return contents
}

// Files returns per-file metadata (size, MIME type, binary flag, language)
// for every included file, in walk order.
func (a *Analyzer) Files() ([]domain.FileEntry, error) {
	files, err := a.walker().Walk()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.FileEntry, 0, len(files))
	for _, rel := range files {
		abs := filepath.Join(a.resolved.Root, filepath.FromSlash(rel))

		info, err := os.Stat(abs)
		if err != nil {
			a.logger.Warn().Err(err).Str("path", rel).Msg("Skipping unstatable file")
			continue
		}

		mime, binary := classify.Classify(abs)
		entry := domain.FileEntry{
			Path:     rel,
			Size:     info.Size(),
			MimeType: mime,
			Binary:   binary,
		}
		if !binary {
			entry.Language = stats.LanguageFor(mime, rel)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Dependencies parses every recognized manifest in the repository. The
// result always carries one key per canonical manifest type.
func (a *Analyzer) Dependencies() (map[string]domain.ManifestResult, error) {
	files, err := a.walker().Walk()
	if err != nil {
		return nil, err
	}
	return deps.ParseAll(a.resolved.Root, files, a.logger), nil
}

// LanguageStats aggregates per-language file and byte counts with
// percentage shares.
func (a *Analyzer) LanguageStats() (map[string]domain.LanguageStat, error) {
	files, err := a.walker().Walk()
	if err != nil {
		return nil, err
	}
	return stats.Languages(a.resolved.Root, files, a.logger), nil
}

// Statistics computes whole-repository totals and the largest-files list.
func (a *Analyzer) Statistics() (*domain.RepoStats, error) {
	files, err := a.walker().Walk()
	if err != nil {
		return nil, err
	}
	return stats.Statistics(a.resolved.Root, files, a.logger), nil
}

// insideRoot resolves a root-relative path and rejects escapes.
func (a *Analyzer) insideRoot(relPath string) (string, bool) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Join(a.resolved.Root, clean), true
}
