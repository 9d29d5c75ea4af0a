package adapter

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

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

func initRepo(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "pom.xml"), []byte("<project/>\n"), 0o644))

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	_, err = worktree.Add("pom.xml")
	require.NoError(t, err)

	_, err = worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return root
}

func TestLocalGitAdapter_IsRepository(t *testing.T) {
	ctx := context.Background()
	adapter := NewLocalGitAdapter()
	root := initRepo(t)

	assert.True(t, adapter.IsRepository(ctx, m.Path(root)))

	nested := filepath.Join(root, "src", "main")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	assert.True(t, adapter.IsRepository(ctx, m.Path(nested)), "parent .git is detected")
}

func TestLocalGitAdapter_IsClean(t *testing.T) {
	ctx := context.Background()
	adapter := NewLocalGitAdapter()
	root := initRepo(t)

	clean, err := adapter.IsClean(ctx, m.Path(root))
	require.NoError(t, err)
	assert.True(t, clean)

	require.NoError(t, os.WriteFile(filepath.Join(root, "pom.xml"), []byte("<project></project>\n"), 0o644))

	clean, err = adapter.IsClean(ctx, m.Path(root))
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestLocalGitAdapter_CreateOrSwitchBranch(t *testing.T) {
	ctx := context.Background()
	adapter := NewLocalGitAdapter()
	root := initRepo(t)

	initial, err := adapter.CurrentBranch(ctx, m.Path(root))
	require.NoError(t, err)
	require.NotEmpty(t, initial)

	created, err := adapter.CreateOrSwitchBranch(ctx, m.Path(root), "migration/spring-boot-4")
	require.NoError(t, err)
	assert.True(t, created)

	current, err := adapter.CurrentBranch(ctx, m.Path(root))
	require.NoError(t, err)
	assert.Equal(t, "migration/spring-boot-4", current)

	created, err = adapter.CreateOrSwitchBranch(ctx, m.Path(root), "migration/spring-boot-4")
	require.NoError(t, err)
	assert.False(t, created, "already on the branch")

	created, err = adapter.CreateOrSwitchBranch(ctx, m.Path(root), initial)
	require.NoError(t, err)
	assert.False(t, created, "existing branch is switched to, not created")

	current, err = adapter.CurrentBranch(ctx, m.Path(root))
	require.NoError(t, err)
	assert.Equal(t, initial, current)
}

func TestLocalGitAdapter_CancelledContext(t *testing.T) {
	adapter := NewLocalGitAdapter()
	root := initRepo(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, adapter.IsRepository(ctx, m.Path(root)))

	_, err := adapter.IsClean(ctx, m.Path(root))
	require.ErrorIs(t, err, context.Canceled)
}
