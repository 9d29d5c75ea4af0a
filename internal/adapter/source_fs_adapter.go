// Package adapter contains the infrastructure adapters used by the migration
// workflow: the working tree, the build tool, git and the console prompt.
package adapter

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
	"lukechampine.com/blake3"
)

// SourceFSAdapter abstracts the filesystem operations the domain layer relies
// on when scanning and rewriting the target project, so rule logic can be
// tested against temp trees or fakes.
//
//nolint:interfacebloat // A richer interface keeps rule logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Walk visits every regular file under root, skipping tool and VCS
	// directories. Paths handed to fn are absolute-or-root-joined.
	Walk(ctx context.Context, root m.Path, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile replaces a file's content, keeping its permissions.
	WriteFile(ctx context.Context, path m.Path, content []byte) error

	// FileInfo returns metadata for a path.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// Exists reports whether path exists.
	Exists(ctx context.Context, path m.Path) bool

	// HashTree returns a blake3 fingerprint over every walked file's path and content.
	HashTree(ctx context.Context, root m.Path) (string, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc is called for each regular file found by Walk.
type FilepathWalkFunc func(path m.Path, info os.FileInfo) error

// SkippedDirs are never descended into: VCS, IDE and tool metadata.
var SkippedDirs = map[string]struct{}{
	".git":         {},
	".gradle":      {},
	".idea":        {},
	"node_modules": {},
}

// BuildOutputDirs are skipped only next to a build descriptor, so
// packages such as com.acme.build are still walked.
var BuildOutputDirs = map[string]struct{}{
	"target": {},
	"build":  {},
}

// BuildDescriptors mark a Maven or Gradle project or module directory.
var BuildDescriptors = []string{"pom.xml", "build.gradle", "build.gradle.kts"}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over regular files under root.
func (a *LocalSourceFSAdapter) Walk(ctx context.Context, root m.Path, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.WalkDir(rootStr, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != rootStr && skipDir(path, d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		return fn(m.Path(path), info)
	})
}

func skipDir(path, name string) bool {
	if _, skip := SkippedDirs[name]; skip {
		return true
	}

	if _, output := BuildOutputDirs[name]; !output {
		return false
	}

	parent := filepath.Dir(path)
	for _, descriptor := range BuildDescriptors {
		if _, err := os.Stat(filepath.Join(parent, descriptor)); err == nil {
			return true
		}
	}

	return false
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.ReadFile(string(path))
}

// WriteFile writes content to an existing file, preserving its mode. New
// files are created 0o644.
func (a *LocalSourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(string(path)); err == nil {
		perm = info.Mode().Perm()
	}

	return os.WriteFile(string(path), content, perm)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(_ context.Context, path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Exists reports whether the path exists.
func (a *LocalSourceFSAdapter) Exists(ctx context.Context, path m.Path) bool {
	_, err := a.FileInfo(ctx, path)
	return err == nil
}

// HashTree fingerprints the tree in sorted path order.
func (a *LocalSourceFSAdapter) HashTree(ctx context.Context, root m.Path) (string, error) {
	var paths []string

	err := a.Walk(ctx, root, func(path m.Path, _ os.FileInfo) error {
		paths = append(paths, string(path))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(paths)

	hasher := blake3.New(32, nil)

	for _, path := range paths {
		rel, err := filepath.Rel(string(root), path)
		if err != nil {
			return "", err
		}

		_, _ = io.WriteString(hasher, filepath.ToSlash(rel))
		_, _ = hasher.Write([]byte{0})

		if err := hashFileInto(hasher, path); err != nil {
			return "", err
		}

		_, _ = hasher.Write([]byte{0})
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func hashFileInto(w io.Writer, path string) error {
	// #nosec G304 - path comes from walking the target tree
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer func() {
		_ = f.Close()
	}()

	_, err = io.Copy(w, f)

	return err
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
