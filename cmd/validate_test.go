package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bootmigrate.dev/pkg/bootmigrate/internal/domain"
	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

func TestValidateCmd_FailingChecksDoNotFail(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	mockWorkflow.On("Validate", mock.Anything, mock.MatchedBy(func(args domain.ValidateArgs) bool {
		return args.BuildTool == m.Gradle && args.Root != ""
	})).Return(m.Report{FailedChecks: 2, Findings: 5}, nil).Once()

	_, err := executeSubcommand(t, newValidateCmd(), "validate", "--dir", t.TempDir(), "--build-tool", "gradle")
	require.NoError(t, err)
}

func TestValidateCmd_RejectsUnknownBuildTool(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	_, err := executeSubcommand(t, newValidateCmd(), "validate", "--dir", t.TempDir(), "--build-tool", "bazel")
	require.Error(t, err)

	mockWorkflow.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}
