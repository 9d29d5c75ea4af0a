// Package cmd provides the root command and CLI setup for bootmigrate.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bootmigrate.dev/pkg/bootmigrate/internal/adapter"
	"bootmigrate.dev/pkg/bootmigrate/internal/controller"
	"bootmigrate.dev/pkg/bootmigrate/internal/domain"
	m "bootmigrate.dev/pkg/bootmigrate/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var gitAdapter adapter.GitAdapter
var buildRunner adapter.BuildRunnerAdapter
var ruleStore adapter.RuleStore
var prompter adapter.Prompter
var preflight domain.Preflight
var sequencer domain.Sequencer
var validator domain.Validator
var workflow domain.Workflow
var ui controller.UI

// dirFlag is the root of the project to migrate.
var dirFlag string

// rulesFileFlag selects a rule set file instead of the embedded default.
var rulesFileFlag string

// excludePatterns is a root-level flag that filters files for every command.
var excludePatterns []string

var logFileFlag string
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewSimpleUI(rootCmd)
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	gitAdapter = adapter.NewLocalGitAdapter()
	buildRunner = adapter.NewLocalBuildRunnerAdapter(viper.GetDuration(gateTimeoutConfigKey))
	ruleStore = adapter.NewYAMLRuleStore()
	prompter = adapter.NewTeaPrompter(os.Stdin, os.Stdout)
	preflight = domain.NewPreflight(gitAdapter, buildRunner, fsAdapter, prompter)
	validator = domain.NewValidator()
	sequencer = domain.NewSequencer(domain.NewRewriter(), validator, ui)
	workflow = domain.NewWorkflow(
		ruleStore,
		fsAdapter,
		buildRunner,
		ui,
		preflight,
		sequencer,
		validator,
	)
}

const rootLongDescription = `Bootmigrate upgrades a Spring Boot project to the next framework major
version by applying phased, regex-based rewrite rules to the working tree.

Phases run in order and can be gated on the project's own compile and test
goals (Maven or Gradle). A failed gate halts the run; fix the build and
resume with --phase. Nothing is rolled back, so run on a clean git tree.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "bootmigrate",
		Short:        "Spring Boot major version migration tool",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&dirFlag, dirFlagName, "C", defaultDir, "root directory of the project to migrate")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(dirFlagName), dirConfigKey)

	cmd.PersistentFlags().StringVar(&rulesFileFlag, rulesFlagName, "", "rule set yaml file (default: embedded Spring Boot 4 rules)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(rulesFlagName), rulesFileConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "exclude files matching glob, relative to --dir (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig lets key be read from bootmigrate.yaml or BOOTMIGRATE_* env when flag is unset.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute runs the bootmigrate command tree and exits non-zero on error.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// signalContext cancels on SIGINT/SIGTERM so running gates are killed.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}

	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func targetRoot() (m.Path, error) {
	dir := viper.GetString(dirConfigKey)
	if dir == "" {
		dir = defaultDir
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project directory: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("project directory %s is not a directory", abs)
	}

	return m.Path(abs), nil
}

func rulesFile() m.Path {
	return m.Path(viper.GetString(rulesFileConfigKey))
}
