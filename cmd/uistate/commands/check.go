package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/uistate/logger"
	"github.com/teranos/uistate/output"
)

// CheckCmd checks that generated extensions are up to date
var CheckCmd = &cobra.Command{
	Use:   "check [patterns|manifests...]",
	Short: "Check that generated extensions are up to date",
	Long: `Check that the extensions on disk match a fresh generation.

Nothing is written. The command fails when a file differs or is missing, which
makes it suitable for CI.

Examples:
  uistate check                      # Sources from uistate.toml
  uistate check --diff ./...         # Show what would change`,
	RunE: runCheck,
}

var checkDiff bool

func init() {
	CheckCmd.Flags().BoolVarP(&checkDiff, "diff", "d", false, "Print a unified diff for every stale file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logger.ComponentLogger("check")
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Checking generated extensions...")

	result, err := generate(cmd.Context(), cfg, workDir, sourcesFor(args), nil, log)
	if err != nil {
		return err
	}
	if err := report(result, cfg.Strict, log); err != nil {
		return err
	}

	cmp, err := output.Compare(outputRoot(cfg, workDir), result.Units)
	if err != nil {
		return err
	}

	if cmp.UpToDate {
		fmt.Fprintf(out, "%s %d files\n", pterm.LightGreen("✓ Extensions are up to date:"), len(result.Units))
		return nil
	}

	fmt.Fprintln(out, pterm.Red("✗ Extensions are out of date."))
	for _, path := range cmp.Stale {
		fmt.Fprintf(out, "  %s %s\n", pterm.Yellow("differs:"), relative(path))
	}
	for _, path := range cmp.Missing {
		fmt.Fprintf(out, "  %s %s\n", pterm.Yellow("missing:"), relative(path))
	}

	if checkDiff {
		root := outputRoot(cfg, workDir)
		for _, u := range result.Units {
			diff, err := output.Diff(root, u)
			if err != nil {
				return err
			}
			if diff != "" {
				fmt.Fprintf(out, "\n%s", diff)
			}
		}
	}
	return cmp.Err()
}
