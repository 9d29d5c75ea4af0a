package domain

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"bootmigrate.dev/pkg/bootmigrate/internal/adapter"
	"bootmigrate.dev/pkg/bootmigrate/internal/controller"
	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readTreeFile(t *testing.T, root, rel string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)

	return string(content)
}

func newTestTree(t *testing.T, files map[string]string) Tree {
	t.Helper()

	root := t.TempDir()
	writeTree(t, root, files)

	return NewTree(m.Path(root), adapter.NewLocalSourceFSAdapter())
}

// copyExample copies a fixture project from examples/ into a temp dir.
func copyExample(t *testing.T, name string) string {
	t.Helper()

	src := filepath.Join("..", "..", "examples", name)
	dst := t.TempDir()

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		return os.WriteFile(target, content, 0o644)
	})
	require.NoError(t, err)

	return dst
}

func newTestUI() (controller.UI, *bytes.Buffer) {
	out := &bytes.Buffer{}

	cmd := &cobra.Command{}
	cmd.SetOut(out)

	return controller.NewSimpleUI(cmd), out
}

func defaultPlan(t *testing.T) *Plan {
	t.Helper()

	ruleSet, err := adapter.NewYAMLRuleStore().LoadRuleSet(context.Background(), "")
	require.NoError(t, err)

	plan, err := CompilePlan(ruleSet)
	require.NoError(t, err)

	return plan
}

type fakeGate struct {
	kind   m.GateKind
	passed bool
	calls  int
}

func (g *fakeGate) Run(ctx context.Context) (m.GateOutcome, error) {
	g.calls++

	if err := ctx.Err(); err != nil {
		return m.GateOutcome{Kind: g.kind}, err
	}

	output := "BUILD SUCCESS"
	if !g.passed {
		output = "BUILD FAILURE"
	}

	return m.GateOutcome{Kind: g.kind, Passed: g.passed, Output: output}, nil
}
