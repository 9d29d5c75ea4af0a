package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "bootmigrate", configBaseName)
	assert.Equal(t, "bootmigrate.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "dir", dirFlagName)
	assert.Equal(t, "phase", phaseFlagName)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "migrate.phase", phaseConfigKey)
	assert.Equal(t, "migrate.gates", gatesConfigKey)
	assert.Equal(t, "paths.exclude", excludeConfigKey)
	assert.Equal(t, ".", defaultDir)
	assert.Equal(t, true, defaultGates)
	assert.Equal(t, true, defaultCreateBranch)
	assert.Equal(t, "BOOTMIGRATE", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestDefaultLogFilename(t *testing.T) {
	path := defaultLogFilename()

	assert.Equal(t, logBaseName, filepath.Base(path))
	assert.Equal(t, configBaseName, filepath.Base(filepath.Dir(path)))
	assert.True(t, filepath.IsAbs(path))
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

func TestConfigureLogger_VerboseForcesDebug(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	logPath := filepath.Join(t.TempDir(), "logs", logBaseName)
	ctx := context.Background()

	configureLogger(logPath, false)
	assert.False(t, globalLogger.Enabled(ctx, slog.LevelDebug))
	assert.True(t, globalLogger.Enabled(ctx, slog.LevelInfo))

	configureLogger(logPath, true)
	assert.True(t, globalLogger.Enabled(ctx, slog.LevelDebug))

	slog.Info("logger configured")

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}
