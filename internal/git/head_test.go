package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepoWithCommit(t *testing.T, message string) (string, string) {
	t.Helper()
	repoPath := filepath.Join(t.TempDir(), "repo")

	repo, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	docsDir := filepath.Join(repoPath, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "index.md"), []byte("# Home\n"), 0o600))

	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add(".")
	require.NoError(t, err)

	commit, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	})
	require.NoError(t, err)
	return repoPath, commit.String()
}

func TestReadRevision_FromSubdirectory(t *testing.T) {
	repoPath, commit := initRepoWithCommit(t, "Add docs\n\nLonger body.")

	rev, err := ReadRevision(filepath.Join(repoPath, "docs"))
	require.NoError(t, err)
	assert.Equal(t, commit, rev.Commit)
	assert.Equal(t, "master", rev.Branch)
	assert.Equal(t, "Add docs", rev.Subject)
	assert.Equal(t, commit[:12], rev.Short())
}

func TestReadRevision_NotRepository(t *testing.T) {
	_, err := ReadRevision(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}

func TestReadRevision_EmptyRepository(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "empty")
	_, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	_, err = ReadRevision(repoPath)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotRepository)
}

func TestRevisionShort(t *testing.T) {
	assert.Equal(t, "abc", Revision{Commit: "abc"}.Short())
}
