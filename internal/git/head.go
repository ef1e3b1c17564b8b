package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when the path is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Revision identifies the commit the documentation sources were built from.
type Revision struct {
	Commit  string `json:"commit"`
	Branch  string `json:"branch,omitempty"` // empty for a detached HEAD
	Subject string `json:"subject,omitempty"`
}

// Short returns the abbreviated commit hash.
func (r Revision) Short() string {
	if len(r.Commit) > 12 {
		return r.Commit[:12]
	}
	return r.Commit
}

// ReadRevision resolves HEAD for the repository containing path. Parent
// directories are searched for the .git directory.
func ReadRevision(path string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Revision{}, ErrNotRepository
		}
		return Revision{}, fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Revision{}, fmt.Errorf("repository has no commits: %w", err)
		}
		return Revision{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	rev := Revision{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}
	if commit, err := repo.CommitObject(head.Hash()); err == nil {
		subject, _, _ := strings.Cut(strings.TrimSpace(commit.Message), "\n")
		rev.Subject = subject
	}
	return rev, nil
}
