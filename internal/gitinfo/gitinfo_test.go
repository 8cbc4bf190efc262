package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadOfWorkTree(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	commit, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	head, err := Head(dir)
	require.NoError(t, err)
	assert.Equal(t, commit.String(), head)
}

func TestHeadOfSubdirectory(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	sub := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.md"), []byte("# A\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("docs/a.md")
	require.NoError(t, err)
	_, err = wt.Commit("docs", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	// DetectDotGit walks up from the subdirectory to the work tree root.
	head, err := Head(sub)
	require.NoError(t, err)
	assert.NotEmpty(t, head)
}

func TestHeadPlainDirectory(t *testing.T) {
	_, err := Head(t.TempDir())
	assert.Error(t, err)
}
