package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("visits nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "pom.xml"), "<project/>\n")

		nestedDir := filepath.Join(root, "src")
		mustMkdir(t, nestedDir)
		child := filepath.Join(nestedDir, "App.java")
		writeTestFile(t, child, "class App {}\n")

		visited := walkAll(t, adapter, root)

		if !containsPath(visited, child) {
			t.Fatalf("Walk() did not visit nested file")
		}

		if containsPath(visited, nestedDir) {
			t.Fatalf("Walk() visited directory %s, want regular files only", nestedDir)
		}
	})

	t.Run("skips build output and vcs directories", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "pom.xml"), "<project/>\n")
		kept := filepath.Join(root, "App.java")
		writeTestFile(t, kept, "class App {}\n")

		var skipped []string
		for _, dir := range []string{".git", "target", "build", ".gradle"} {
			mustMkdir(t, filepath.Join(root, dir))
			path := filepath.Join(root, dir, "Generated.java")
			writeTestFile(t, path, "import javax.persistence.Entity;\n")
			skipped = append(skipped, path)
		}

		visited := walkAll(t, adapter, root)

		for _, path := range skipped {
			if containsPath(visited, path) {
				t.Fatalf("Walk() unexpectedly visited %s", path)
			}
		}

		if !containsPath(visited, kept) {
			t.Fatalf("Walk() did not visit %s", kept)
		}
	})

	t.Run("walks packages named like build output", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "pom.xml"), "<project/>\n")

		pkg := filepath.Join(root, "src", "main", "java", "com", "acme")
		var kept []string
		for _, dir := range []string{"build", "target", "other"} {
			if err := os.MkdirAll(filepath.Join(pkg, dir), 0o755); err != nil {
				t.Fatalf("failed to create dir: %v", err)
			}

			path := filepath.Join(pkg, dir, "Step.java")
			writeTestFile(t, path, "package com.acme."+dir+";\n")
			kept = append(kept, path)
		}

		visited := walkAll(t, adapter, root)

		for _, path := range kept {
			if !containsPath(visited, path) {
				t.Fatalf("Walk() did not visit %s", path)
			}
		}
	})

	t.Run("skips build output of nested modules", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "settings.gradle"), "include 'app'\n")

		module := filepath.Join(root, "app")
		mustMkdir(t, module)
		writeTestFile(t, filepath.Join(module, "build.gradle"), "plugins {}\n")
		mustMkdir(t, filepath.Join(module, "build"))

		generated := filepath.Join(module, "build", "Generated.java")
		writeTestFile(t, generated, "class Generated {}\n")

		if containsPath(walkAll(t, adapter, root), generated) {
			t.Fatalf("Walk() visited module build output %s", generated)
		}
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "App.java"), "class App {}\n")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := adapter.Walk(ctx, m.Path(root), func(m.Path, os.FileInfo) error { return nil })
		if err == nil {
			t.Fatalf("Walk() error = nil, want context error")
		}
	})
}

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "App.java")
	content := "package demo;\n" + "class App {}\n"
	writeTestFile(t, path, content)

	got, err := adapter.ReadFile(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != content {
		t.Fatalf("ReadFile() = %q, want %q", string(got), content)
	}
}

func TestLocalSourceFSAdapter_WriteFileKeepsMode(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "mvnw")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}

	if err := adapter.WriteFile(context.Background(), m.Path(path), []byte("#!/bin/sh\nexec mvn \"$@\"\n")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if info.Mode().Perm() != 0o755 {
		t.Fatalf("WriteFile() mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestLocalSourceFSAdapter_HashTree(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "pom.xml"), "<project/>\n")
	mustMkdir(t, filepath.Join(root, "src"))
	writeTestFile(t, filepath.Join(root, "src", "App.java"), "class App {}\n")

	first, err := adapter.HashTree(ctx, m.Path(root))
	if err != nil {
		t.Fatalf("HashTree() error = %v", err)
	}

	second, err := adapter.HashTree(ctx, m.Path(root))
	if err != nil {
		t.Fatalf("HashTree() error = %v", err)
	}

	if first != second {
		t.Fatalf("HashTree() not stable: %s != %s", first, second)
	}

	if len(first) != 64 {
		t.Fatalf("HashTree() = %q, want 32-byte hex digest", first)
	}

	mustMkdir(t, filepath.Join(root, "target"))
	writeTestFile(t, filepath.Join(root, "target", "App.class"), "cafebabe")

	ignored, err := adapter.HashTree(ctx, m.Path(root))
	if err != nil {
		t.Fatalf("HashTree() error = %v", err)
	}

	if ignored != first {
		t.Fatalf("HashTree() changed after writing into a skipped directory")
	}

	writeTestFile(t, filepath.Join(root, "src", "App.java"), "class App { }\n")

	changed, err := adapter.HashTree(ctx, m.Path(root))
	if err != nil {
		t.Fatalf("HashTree() error = %v", err)
	}

	if changed == first {
		t.Fatalf("HashTree() did not change after editing a file")
	}
}

func TestLocalSourceFSAdapter_FileInfoAndExists(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	root := t.TempDir()
	path := filepath.Join(root, "pom.xml")
	writeTestFile(t, path, "<project/>\n")

	info, err := adapter.FileInfo(ctx, m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() {
		t.Fatalf("FileInfo() reported file as directory")
	}

	if !adapter.Exists(ctx, m.Path(path)) {
		t.Fatalf("Exists() = false for %s", path)
	}

	if adapter.Exists(ctx, m.Path(filepath.Join(root, "build.gradle"))) {
		t.Fatalf("Exists() = true for a missing file")
	}
}

func TestLocalSourceFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	base := m.Path("/tmp/project")
	target := m.Path("/tmp/project/src/main/App.java")

	rel, err := adapter.RelPath(base, target)
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if string(rel) != filepath.Join("src", "main", "App.java") {
		t.Fatalf("RelPath() = %s, want %s", rel, filepath.Join("src", "main", "App.java"))
	}

	joined := adapter.JoinPath("/tmp", "project", "pom.xml")
	if string(joined) != filepath.Join("/tmp", "project", "pom.xml") {
		t.Fatalf("JoinPath() = %s, want %s", joined, filepath.Join("/tmp", "project", "pom.xml"))
	}
}

func walkAll(t *testing.T, adapter *LocalSourceFSAdapter, root string) []string {
	t.Helper()

	var visited []string

	err := adapter.Walk(context.Background(), m.Path(root), func(path m.Path, _ os.FileInfo) error {
		visited = append(visited, string(path))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	return visited
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}
