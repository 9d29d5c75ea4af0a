package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
	"bootmigrate.dev/pkg/bootmigrate/internal/rules"
)

func TestYAMLRuleStore_LoadDefault(t *testing.T) {
	store := NewYAMLRuleStore()

	ruleSet, err := store.LoadRuleSet(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, rules.DefaultName, ruleSet.Name)
	assert.Equal(t, 25, ruleSet.TargetJava)
	assert.Len(t, ruleSet.Phases, 7)
	assert.NotEmpty(t, ruleSet.Checks)
	assert.Equal(t, rules.Default, store.DefaultRuleSet())
}

func TestYAMLRuleStore_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `name: custom
target_java: 21
phases:
  - number: 1
    name: Imports
    gate: compile
    rules:
      - id: javax-inject
        files: ["**/*.java"]
        find: 'javax\.inject\.'
        replace: 'jakarta.inject.'
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	ruleSet, err := NewYAMLRuleStore().LoadRuleSet(context.Background(), m.Path(path))
	require.NoError(t, err)

	require.Len(t, ruleSet.Phases, 1)
	assert.Equal(t, m.GateCompile, ruleSet.Phases[0].Gate)
	assert.Equal(t, `javax\.inject\.`, ruleSet.Phases[0].Rules[0].Find)
}

func TestYAMLRuleStore_Errors(t *testing.T) {
	_, err := NewYAMLRuleStore().LoadRuleSet(context.Background(), m.Path(filepath.Join(t.TempDir(), "missing.yaml")))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = DecodeRuleSet(strings.NewReader(""))
	require.EqualError(t, err, "empty document")

	_, err = DecodeRuleSet(strings.NewReader("name: x\nphasez: []\n"))
	require.Error(t, err, "unknown fields are rejected")
}
