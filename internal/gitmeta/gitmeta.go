package gitmeta

import (
	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog/log"
)

// Meta is git metadata attached to a deployment record
type Meta struct {
	SHA      string
	ShortSHA string
	Branch   string
	Dirty    bool
}

// Describe collects git metadata for the repository containing dir. The
// lookup walks upward, so project subdirectories resolve too. Projects
// outside a repository yield a zero Meta; git problems are logged at
// debug and never fail a deploy.
func Describe(dir string) Meta {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("No git repository detected")
		return Meta{}
	}

	var meta Meta

	head, err := repo.Head()
	if err != nil {
		log.Debug().Err(err).Msg("Failed to resolve git HEAD")
		return meta
	}

	meta.SHA = head.Hash().String()
	if len(meta.SHA) >= 7 {
		meta.ShortSHA = meta.SHA[:7]
	}
	if head.Name().IsBranch() {
		meta.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		log.Debug().Err(err).Msg("Failed to open git worktree")
		return meta
	}

	status, err := wt.Status()
	if err != nil {
		log.Debug().Err(err).Msg("Failed to compute git status")
		return meta
	}
	meta.Dirty = !status.IsClean()

	return meta
}
