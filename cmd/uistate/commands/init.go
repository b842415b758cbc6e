package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/uistate/config"
)

var initForce bool

// InitCmd writes a uistate.toml in the working directory
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write uistate.toml in the current directory",
	Long: `Write the effective configuration to uistate.toml in the current directory.

Flags given to init end up in the file, so

  uistate init --lang kotlin -o build/generated

starts a Kotlin project. An existing file is only replaced with --force.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(callDir, config.FileName)
		if err := config.Write(path, cfg, initForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", pterm.LightGreen("✓ Created:"), path)
		return nil
	},
}

func init() {
	InitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing uistate.toml")
}
