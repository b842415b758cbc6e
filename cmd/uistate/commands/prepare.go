// Package commands implements the uistate subcommands.
package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/uistate/config"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/logger"
)

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	"lang":          "lang",
	"output":        "output",
	"strict":        "strict",
	"max_passes":    "max-passes",
	"directive":     "directive",
	"log.json":      "json-logs",
	"log.verbosity": "verbose",
}

var (
	// cfg is the configuration of the running command, set by Prepare
	cfg *config.Config
	// workDir is where configured sources and outputs resolve: the directory
	// of the uistate.toml in use, or the current directory without one
	workDir string
	// callDir is the directory the command was started in; arguments are
	// relative to it
	callDir string
)

// Prepare loads configuration for cmd and initialises the global logger.
// Precedence is defaults, uistate.toml, UISTATE_* environment, then flags.
func Prepare(cmd *cobra.Command) error {
	dir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get working directory")
	}

	v, path, err := config.NewViper(dir)
	if err != nil {
		return err
	}
	if err := config.BindFlags(v, cmd.Flags(), flagKeys); err != nil {
		return err
	}
	loaded, err := config.LoadWithViper(v)
	if err != nil {
		return err
	}

	if err := logger.Initialize(loaded.Log.JSON, loaded.Log.Verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	logger.Debugw("Loaded config",
		logger.FieldFile, path,
		"level", logger.LevelName(loaded.Log.Verbosity),
		logger.FieldLang, loaded.Lang)

	cfg = loaded
	workDir = projectDir(dir, path)
	callDir = dir
	return nil
}

// projectDir returns the directory of the config file at path, or cwd when
// no config file was found.
func projectDir(cwd, path string) string {
	if path == "" {
		return cwd
	}
	return filepath.Dir(path)
}
