package repo

import (
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/quantmind-br/gitparse-go/internal/domain"
)

// Info reads Git metadata from the resolved root. A directory without Git
// metadata degrades to the name alone instead of failing, so plain source
// trees remain analyzable.
func (a *Analyzer) Info() *domain.RepoInfo {
	info := &domain.RepoInfo{
		Name: filepath.Base(a.resolved.Root),
	}

	gitRepo, err := git.PlainOpen(a.resolved.Root)
	if err != nil {
		a.logger.Debug().Err(err).Msg("No Git metadata available")
		return info
	}

	if cfg, err := gitRepo.Config(); err == nil {
		info.Bare = cfg.Core.IsBare
	}

	if head, err := gitRepo.Head(); err == nil {
		info.HeadCommit = head.Hash().String()
		if head.Name().IsBranch() {
			info.DefaultBranch = head.Name().Short()
		}
	} else {
		a.logger.Debug().Err(err).Msg("Repository has no HEAD")
	}

	if remotes, err := gitRepo.Remotes(); err == nil {
		for _, remote := range remotes {
			info.Remotes = append(info.Remotes, remote.Config().Name)
		}
	}

	return info
}
