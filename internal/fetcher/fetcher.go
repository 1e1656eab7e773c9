// Package fetcher resolves a repository source, either a local directory or
// a remote URL cloned into a temporary directory, and owns the temporary
// directory's lifecycle.
package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/quantmind-br/gitparse-go/internal/domain"
	"github.com/quantmind-br/gitparse-go/internal/utils"
)

// Resolver turns a source string into a usable local repository root.
type Resolver struct {
	tempDir string
	logger  *utils.Logger
}

// ResolverOptions contains options for creating a Resolver.
type ResolverOptions struct {
	// TempDir overrides the clone destination for remote sources.
	TempDir string
	Logger  *utils.Logger
}

// NewResolver creates a Resolver.
func NewResolver(opts ResolverOptions) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Resolver{
		tempDir: opts.TempDir,
		logger:  logger.WithComponent("fetcher"),
	}
}

// Resolved is a usable repository root. Temp reports whether the root is a
// temporary clone owned by this process.
type Resolved struct {
	Root string
	Temp bool
}

// Resolve validates a local directory or clones a remote URL. Local sources
// fail with domain.ErrNotFound when absent and domain.ErrInvalidRepository
// when the path is not a directory; clone failures surface as CloneError.
func (r *Resolver) Resolve(ctx context.Context, source string) (*Resolved, error) {
	if IsRemote(source) {
		return r.resolveRemote(ctx, source)
	}
	return r.resolveLocal(source)
}

func (r *Resolver) resolveLocal(source string) (*Resolved, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, source)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, source)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidRepository, source)
	}

	return &Resolved{Root: abs}, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, source string) (*Resolved, error) {
	dest := r.tempDir
	temp := false
	if dest == "" {
		var err error
		dest, err = os.MkdirTemp("", "gitparse-*")
		if err != nil {
			return nil, domain.NewCloneError(source, err)
		}
		temp = true
	}

	if err := cloneOrUpdate(ctx, source, dest, r.logger); err != nil {
		if temp {
			_ = os.RemoveAll(dest)
		}
		return nil, domain.NewCloneError(source, err)
	}

	return &Resolved{Root: dest, Temp: temp}, nil
}

// Cleanup removes a temporary clone. It is idempotent and safe to invoke
// multiple times; transient removal failures (delayed handle release) are
// retried once after a short pause. Errors are logged, never returned, so
// teardown cannot mask the result of the operation that preceded it.
func (res *Resolved) Cleanup(logger *utils.Logger) {
	if res == nil || !res.Temp || res.Root == "" {
		return
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	if _, err := os.Stat(res.Root); os.IsNotExist(err) {
		return
	}

	remove := func() error {
		if err := os.RemoveAll(res.Root); err != nil {
			makeWritable(res.Root)
			return err
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(100*time.Millisecond), 1)
	if err := backoff.Retry(remove, policy); err != nil {
		logger.Warn().Err(err).Str("path", res.Root).Msg("Failed to clean up temporary clone")
		return
	}
	logger.Debug().Str("path", res.Root).Msg("Removed temporary clone")
}

// makeWritable clears read-only bits that Git sets on object files, which
// block removal on some platforms.
func makeWritable(root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		_ = os.Chmod(path, info.Mode()|0200)
		return nil
	})
}

// IsRemote reports whether the source denotes a remote repository URL.
func IsRemote(source string) bool {
	if strings.HasPrefix(source, "git@") {
		return true
	}
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https", "git", "ssh":
		return u.Host != ""
	}
	return false
}
