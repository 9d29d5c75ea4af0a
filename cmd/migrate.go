package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bootmigrate.dev/pkg/bootmigrate/internal/controller"
	"bootmigrate.dev/pkg/bootmigrate/internal/domain"
	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

const migrateLongDescription = `Run the migration phases against the project in --dir.

Phases:
  1  build files    parent/plugin versions, Java level, renamed starters
  2  imports        package relocations (Jackson 3, jakarta)
  3  API changes    renamed types and annotations        (compile gate)
  4  properties     renamed configuration properties
  5  tests          Mockito bean overrides, test starter (test gate)
  6  deployment     JDK images in Dockerfiles and CI
  7  validation     leftover pattern checks

--dry-run reports what would change and writes nothing; --report-only
phrases the same counts as findings. Gates only run when applying.`

var migrateDryRunFlag bool
var migrateReportOnlyFlag bool
var migratePhaseFlag string
var migrateNoGatesFlag bool
var migrateNoBranchFlag bool
var migrateBranchFlag string
var migrateYesFlag bool
var migrateDiffFlag bool
var migrateBuildToolFlag string

// migrateCmd represents the migrate command.
var migrateCmd = newMigrateCmd()

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the migration rules phase by phase",
		Long:  migrateLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phases, err := domain.ParsePhaseRange(viper.GetString(phaseConfigKey))
			if err != nil {
				return err
			}

			tool, err := m.ParseBuildTool(migrateBuildToolFlag)
			if err != nil {
				return err
			}

			root, err := targetRoot()
			if err != nil {
				return err
			}

			mode := migrateMode(migrateDryRunFlag, migrateReportOnlyFlag)

			ctx, cancel := signalContext(cmd)
			defer cancel()

			_, err = workflow.Migrate(ctx, domain.MigrateArgs{
				Root:         root,
				RulesFile:    rulesFile(),
				Exclude:      viper.GetStringSlice(excludeConfigKey),
				Mode:         mode,
				Phases:       phases,
				Gates:        viper.GetBool(gatesConfigKey) && !migrateNoGatesFlag,
				BuildTool:    tool,
				Branch:       viper.GetString(branchConfigKey),
				CreateBranch: viper.GetBool(createBranchConfigKey) && !migrateNoBranchFlag,
				Interactive:  isInteractive(mode, migrateYesFlag),
				ShowDiff:     migrateDiffFlag,
			})

			return err
		},
	}

	configureMigrateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func configureMigrateFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&migrateDryRunFlag, dryRunFlagName, false, "report what would change without writing")
	cmd.Flags().BoolVar(&migrateReportOnlyFlag, reportOnlyFlagName, false, "report matches as findings without writing")
	cmd.MarkFlagsMutuallyExclusive(dryRunFlagName, reportOnlyFlagName)

	cmd.Flags().StringVarP(&migratePhaseFlag, phaseFlagName, "p", defaultPhase, "phase N or range N-M to run (default: all)")
	bindFlagToConfig(cmd.Flags().Lookup(phaseFlagName), phaseConfigKey)

	cmd.Flags().BoolVar(&migrateNoGatesFlag, noGatesFlagName, false, "skip compile and test gates")
	cmd.Flags().BoolVar(&migrateNoBranchFlag, noBranchFlagName, false, "do not create or switch the migration branch")

	cmd.Flags().StringVar(&migrateBranchFlag, branchFlagName, "", "migration branch name (default: from the rule set)")
	bindFlagToConfig(cmd.Flags().Lookup(branchFlagName), branchConfigKey)

	cmd.Flags().BoolVarP(&migrateYesFlag, yesFlagName, "y", false, "do not ask for confirmation on a dirty working tree")
	cmd.Flags().BoolVar(&migrateDiffFlag, diffFlagName, false, "print a unified diff for every changed file")
	cmd.Flags().StringVar(&migrateBuildToolFlag, buildToolFlagName, "", "force the build tool (maven or gradle)")
}

func migrateMode(dryRun, reportOnly bool) m.Mode {
	switch {
	case dryRun:
		return m.DryRun
	case reportOnly:
		return m.ReportOnly
	}

	return m.Apply
}

// isInteractive reports whether the run may stop to ask the operator.
func isInteractive(mode m.Mode, assumeYes bool) bool {
	if !mode.Mutates() || assumeYes || os.Getenv("CI") != "" {
		return false
	}

	return controller.IsTTY(os.Stdin) && controller.IsTTY(os.Stdout)
}
