package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/uistate/cmd/uistate/commands"
	"github.com/teranos/uistate/logger"
)

var rootCmd = &cobra.Command{
	Use:   "uistate",
	Short: "uistate - guarded helpers for sealed state types",
	Long: `uistate - guarded helpers for sealed state types.

uistate finds sealed types marked for generation and writes, for each one, a
file of helpers that run a block only when a value is a particular case.

Available commands:
  generate - Generate extensions for marked types
  check    - Fail when generated extensions are out of date
  watch    - Regenerate whenever sources change
  init     - Write a default uistate.toml
  version  - Show version information

Examples:
  uistate generate ./...                    # Go target, every package below here
  uistate generate --lang kotlin state.yaml # Kotlin target from a manifest
  uistate check                             # Verify committed files in CI
  uistate watch -v                          # Regenerate on save`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commands.Prepare(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	flags.Bool("json-logs", false, "Write logs as JSON lines")
	flags.StringP("lang", "l", "", "Target language: go, kotlin")
	flags.StringP("output", "o", "", "Directory relative output paths resolve against")
	flags.Bool("strict", false, "Treat warnings as errors")
	flags.Int("max-passes", 0, "Passes before deferred types are reported")
	flags.String("directive", "", "Comment marking a sealed root, without //")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
