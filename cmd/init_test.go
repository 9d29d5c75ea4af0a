package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type generatedConfig struct {
	Version int `yaml:"version"`
	Migrate struct {
		Gates        *bool  `yaml:"gates"`
		CreateBranch *bool  `yaml:"create_branch"`
		GateTimeout  string `yaml:"gate_timeout"`
	} `yaml:"migrate"`
	Rules struct {
		File *string `yaml:"file"`
	} `yaml:"rules"`
	Paths struct {
		Exclude []string `yaml:"exclude"`
	} `yaml:"paths"`
	Log struct {
		Filename string `yaml:"filename"`
	} `yaml:"log"`
}

func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	return dir
}

func runInit(t *testing.T) (string, error) {
	t.Helper()

	root := newRootCmd()
	root.AddCommand(newInitCmd())

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"init"})

	err := root.Execute()

	return out.String(), err
}

func TestInitCmd_WritesBootmigrateDefaults(t *testing.T) {
	workDir := chdirTemp(t)

	out, err := runInit(t)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	contents, err := os.ReadFile(filepath.Join(workDir, configFileName))
	require.NoError(t, err)

	var cfg generatedConfig
	require.NoError(t, yaml.Unmarshal(contents, &cfg))

	assert.Equal(t, currentConfigVersion, cfg.Version)

	require.NotNil(t, cfg.Migrate.Gates, "migrate.gates missing")
	assert.True(t, *cfg.Migrate.Gates)
	require.NotNil(t, cfg.Migrate.CreateBranch, "migrate.create_branch missing")
	assert.True(t, *cfg.Migrate.CreateBranch)
	assert.NotEmpty(t, cfg.Migrate.GateTimeout)

	require.NotNil(t, cfg.Rules.File, "rules.file missing")
	assert.Empty(t, *cfg.Rules.File)

	assert.Contains(t, string(contents), "exclude:")
	assert.Empty(t, cfg.Paths.Exclude)
}

func TestInitCmd_DefaultLogFileStaysOutOfWorkingTree(t *testing.T) {
	workDir := chdirTemp(t)

	_, err := runInit(t)
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(workDir, configFileName))
	require.NoError(t, err)

	var cfg generatedConfig
	require.NoError(t, yaml.Unmarshal(contents, &cfg))

	logPath := cfg.Log.Filename
	require.NotEmpty(t, logPath)
	assert.True(t, filepath.IsAbs(logPath), "log path %q is relative", logPath)
	assert.Equal(t, defaultLogFilename(), logPath)

	rel, err := filepath.Rel(workDir, logPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, ".."), "log path %q is inside %s", logPath, workDir)
}

func TestInitCmd_KeepsExistingFile(t *testing.T) {
	workDir := chdirTemp(t)

	targetPath := filepath.Join(workDir, configFileName)
	existing := []byte("migrate:\n  gates: false\n")
	require.NoError(t, os.WriteFile(targetPath, existing, 0o644))

	_, err := runInit(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config file")

	contents, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.Equal(t, existing, contents)
}
