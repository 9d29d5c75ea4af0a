package domain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"bootmigrate.dev/pkg/bootmigrate/internal/adapter"
	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

// Tree is the target working tree. It holds no file list: every call to
// Files walks the disk again, so a rule sees the effects of earlier rules.
type Tree struct {
	Root    m.Path
	FS      adapter.SourceFSAdapter
	Exclude []string
}

// NewTree builds a Tree rooted at root.
func NewTree(root m.Path, fs adapter.SourceFSAdapter, exclude ...string) Tree {
	return Tree{Root: root, FS: fs, Exclude: exclude}
}

// Files returns the sorted, de-duplicated files whose root-relative slash
// path matches any of globs and none of the tree's exclude globs.
func (t Tree) Files(ctx context.Context, globs []string) ([]m.Path, error) {
	var files []m.Path

	err := t.FS.Walk(ctx, t.Root, func(path m.Path, _ os.FileInfo) error {
		rel, err := t.FS.RelPath(t.Root, path)
		if err != nil {
			return err
		}

		slashed := filepath.ToSlash(string(rel))
		if matchAny(t.Exclude, slashed) || !matchAny(globs, slashed) {
			return nil
		}

		files = append(files, path)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.Root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

// Rel returns path relative to the tree root, for display.
func (t Tree) Rel(path m.Path) m.Path {
	rel, err := t.FS.RelPath(t.Root, path)
	if err != nil {
		return path
	}

	return m.Path(filepath.ToSlash(string(rel)))
}

func matchAny(globs []string, path string) bool {
	for _, glob := range globs {
		if ok, err := doublestar.Match(glob, path); err == nil && ok {
			return true
		}
	}

	return false
}
