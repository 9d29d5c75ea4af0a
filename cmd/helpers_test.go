package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	domainmocks "bootmigrate.dev/pkg/bootmigrate/internal/domain/mocks"
)

func withMockWorkflow(t *testing.T) *domainmocks.MockWorkflow {
	t.Helper()

	original := workflow
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = original })

	return mockWorkflow
}

// executeSubcommand runs sub under a fresh root command with the log file
// redirected into a temp dir.
func executeSubcommand(t *testing.T, sub *cobra.Command, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	root.AddCommand(sub)

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)

	logFile := filepath.Join(t.TempDir(), "bootmigrate.log")
	root.SetArgs(append(args, "--"+logFileFlagName, logFile))

	err := root.Execute()

	return out.String(), err
}
