package fetcher

import (
	"context"
	"errors"
	"os"

	"github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/quantmind-br/gitparse-go/internal/utils"
)

// cloneOrUpdate clones the repository into destDir, or pulls when a clone
// already exists there (the caller-specified temp dir case).
func cloneOrUpdate(ctx context.Context, source, destDir string, logger *utils.Logger) error {
	if _, err := os.Stat(destDir + "/.git"); err == nil {
		return pull(ctx, destDir, logger)
	}

	logger.Info().Str("url", source).Str("dest", destDir).Msg("Cloning repository")

	cloneOpts := &git.CloneOptions{
		URL: source,
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cloneOpts.Auth = &githttp.BasicAuth{
			Username: "token",
			Password: token,
		}
	}

	_, err := git.PlainCloneContext(ctx, destDir, false, cloneOpts)
	return err
}

func pull(ctx context.Context, destDir string, logger *utils.Logger) error {
	repo, err := git.PlainOpen(destDir)
	if err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}

	logger.Debug().Str("dest", destDir).Msg("Updating existing clone")

	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}
