package git

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/mergeflow/mergeflow/logger"
)

// Context holds the read-only repository facts a merge run needs, loaded
// once at the start of the run. Mutating operations never use go-git; they
// all flow through the command runner so hooks, credential helpers, and
// SSH agents behave exactly as they do for the user's git installation.
type Context struct {
	Root          string
	CurrentBranch string
	LocalBranches []string
	Remotes       []string
}

// LoadContext opens the repository at path and reads its current branch,
// local branch names, and configured remote names. Branch and remote lists
// are sorted so "first remote" is deterministic, matching the order the
// git CLI reports. A remote enumeration fault degrades to an empty list;
// remote-name resolution then falls back to "origin".
func LoadContext(path string) (*Context, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return nil, fmt.Errorf("HEAD is detached; check out a branch first")
	}

	rctx := &Context{
		Root:          path,
		CurrentBranch: head.Name().Short(),
	}

	branches, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		rctx.LocalBranches = append(rctx.LocalBranches, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	sort.Strings(rctx.LocalBranches)

	remotes, err := repo.Remotes()
	if err != nil {
		logger.WithComponent("git").Warn("could not enumerate remotes", "error", err, "repoPath", path)
	} else {
		for _, remote := range remotes {
			rctx.Remotes = append(rctx.Remotes, remote.Config().Name)
		}
		sort.Strings(rctx.Remotes)
	}

	return rctx, nil
}

// HasLocalBranch reports whether name is among the loaded local branches.
func (c *Context) HasLocalBranch(name string) bool {
	for _, branch := range c.LocalBranches {
		if branch == name {
			return true
		}
	}
	return false
}

// FindRepoRoot walks up from start until a directory opens as a git
// repository, so the CLI works from subdirectories of the working tree.
func FindRepoRoot(start string) (string, error) {
	path, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := gogit.PlainOpen(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", fmt.Errorf("no git repository found in or above %s: %w", start, os.ErrNotExist)
		}
		path = parent
	}
}
