package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bootmigrate.dev/pkg/bootmigrate/internal/domain"
	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

var validateBuildToolFlag string

// validateCmd represents the validate command.
var validateCmd = newValidateCmd()

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Scan for leftover pre-migration patterns",
		Long: `Run the rule set's read-only checks against the project in --dir.

Failing checks are listed with their locations but never fail the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tool, err := m.ParseBuildTool(validateBuildToolFlag)
			if err != nil {
				return err
			}

			root, err := targetRoot()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			_, err = workflow.Validate(ctx, domain.ValidateArgs{
				Root:      root,
				RulesFile: rulesFile(),
				Exclude:   viper.GetStringSlice(excludeConfigKey),
				BuildTool: tool,
			})

			return err
		},
	}

	cmd.Flags().StringVar(&validateBuildToolFlag, buildToolFlagName, "", "force the build tool (maven or gradle)")

	return cmd
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
