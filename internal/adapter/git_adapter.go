package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// ErrNotRepository is returned when dir is not inside a git working tree.
var ErrNotRepository = errors.New("not a git repository")

// GitAdapter covers the repository operations the preflight needs.
type GitAdapter interface {
	// IsRepository reports whether dir is inside a git working tree.
	IsRepository(ctx context.Context, dir m.Path) bool

	// IsClean reports whether the working tree has no uncommitted changes.
	IsClean(ctx context.Context, dir m.Path) (bool, error)

	// CurrentBranch returns the short name of HEAD, or "" when detached.
	CurrentBranch(ctx context.Context, dir m.Path) (string, error)

	// CreateOrSwitchBranch checks out name, creating it from HEAD when it
	// does not exist. Local changes are kept. Already on name is a no-op.
	CreateOrSwitchBranch(ctx context.Context, dir m.Path, name string) (created bool, err error)
}

// LocalGitAdapter is backed by go-git.
type LocalGitAdapter struct{}

// NewLocalGitAdapter constructs a LocalGitAdapter.
func NewLocalGitAdapter() *LocalGitAdapter {
	return &LocalGitAdapter{}
}

func (a *LocalGitAdapter) open(dir m.Path) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(string(dir), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}

		return nil, fmt.Errorf("opening repository: %w", err)
	}

	return repo, nil
}

// IsRepository reports whether dir is inside a git working tree.
func (a *LocalGitAdapter) IsRepository(ctx context.Context, dir m.Path) bool {
	if ctx.Err() != nil {
		return false
	}

	_, err := a.open(dir)

	return err == nil
}

// IsClean reports whether the worktree status is clean.
func (a *LocalGitAdapter) IsClean(ctx context.Context, dir m.Path) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	repo, err := a.open(dir)
	if err != nil {
		return false, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}

	return status.IsClean(), nil
}

// CurrentBranch returns HEAD's branch name.
func (a *LocalGitAdapter) CurrentBranch(ctx context.Context, dir m.Path) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	repo, err := a.open(dir)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", nil
	}

	return head.Name().Short(), nil
}

// CreateOrSwitchBranch checks out the branch, creating it from HEAD if needed.
func (a *LocalGitAdapter) CreateOrSwitchBranch(ctx context.Context, dir m.Path, name string) (bool, error) {
	current, err := a.CurrentBranch(ctx, dir)
	if err != nil {
		return false, err
	}

	if current == name {
		return false, nil
	}

	repo, err := a.open(dir)
	if err != nil {
		return false, err
	}

	refName := plumbing.NewBranchReferenceName(name)

	_, err = repo.Reference(refName, true)

	exists := err == nil
	if err != nil && !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, fmt.Errorf("looking up branch %s: %w", name, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	err = worktree.Checkout(&git.CheckoutOptions{
		Branch: refName,
		Create: !exists,
		Keep:   true,
	})
	if err != nil {
		return false, fmt.Errorf("checking out %s: %w", name, err)
	}

	return !exists, nil
}
