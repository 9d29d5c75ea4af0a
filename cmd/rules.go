package cmd

import (
	"github.com/spf13/cobra"

	"bootmigrate.dev/pkg/bootmigrate/internal/domain"
)

var rulesExportFlag bool

// rulesCmd represents the rules command.
var rulesCmd = newRulesCmd()

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the phases and rules of the rule set",
		Long: `List the phases and rules of the active rule set (--rules, or the embedded
Spring Boot 4 rules). With --export the yaml document is printed instead,
as a starting point for a custom rule set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			return workflow.Rules(ctx, domain.RulesArgs{
				RulesFile: rulesFile(),
				Export:    rulesExportFlag,
				Out:       cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().BoolVar(&rulesExportFlag, exportFlagName, false, "print the rule set yaml")

	return cmd
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
