package gitguard

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	for _, name := range []string{"src/clean.astro", "src/edited.astro", "src/staged.astro"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), []byte("v1"), 0644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}

	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "edited.astro"), []byte("v2"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "staged.astro"), []byte("v2"), 0644))
	_, err = wt.Add("src/staged.astro")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "new.astro"), []byte("v1"), 0644))

	return dir
}

func TestGuardDirty(t *testing.T) {
	dir := initRepo(t)

	guard, err := Open(context.Background(), filepath.Join(dir, "src"))
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "clean_tracked_file", path: filepath.Join(dir, "src", "clean.astro"), want: false},
		{name: "worktree_change", path: filepath.Join(dir, "src", "edited.astro"), want: true},
		{name: "staged_change", path: filepath.Join(dir, "src", "staged.astro"), want: true},
		{name: "untracked_file", path: filepath.Join(dir, "src", "new.astro"), want: true},
		{name: "outside_repository", path: filepath.Join(filepath.Dir(dir), "other.astro"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := guard.Dirty(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenOutsideRepository(t *testing.T) {
	_, err := Open(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening git repository")
}
