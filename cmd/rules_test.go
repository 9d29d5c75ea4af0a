package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bootmigrate.dev/pkg/bootmigrate/internal/domain"
)

func TestRulesCmd(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantExport bool
	}{
		{"list", []string{"rules"}, false},
		{"export", []string{"rules", "--export"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWorkflow := withMockWorkflow(t)

			mockWorkflow.On("Rules", mock.Anything, mock.MatchedBy(func(args domain.RulesArgs) bool {
				return args.Export == tt.wantExport && args.Out != nil
			})).Return(nil).Once()

			_, err := executeSubcommand(t, newRulesCmd(), tt.args...)
			require.NoError(t, err)
		})
	}
}
