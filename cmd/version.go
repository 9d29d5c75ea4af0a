package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	"bootmigrate.dev/pkg/bootmigrate/internal/rules"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version, the Go version and the default rule set.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println("version: unknown")
				return
			}

			cmd.Println("bootmigrate version\t", info.Main.Version)
			cmd.Println("go version\t", info.GoVersion)
			cmd.Println("rule set\t", rules.DefaultName)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
