package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/uistate/codegen"
	"github.com/teranos/uistate/logger"
	"github.com/teranos/uistate/output"
)

// GenerateCmd writes extensions for every marked type
var GenerateCmd = &cobra.Command{
	Use:     "generate [patterns|manifests...]",
	Aliases: []string{"gen"},
	Short:   "Generate extensions for marked sealed types",
	Long: `Generate one extensions file per marked sealed type.

Arguments are Go package patterns (./..., ./ui/state) or declaration manifests
(.yaml, .yml, .toml, .json). Without arguments the sources from uistate.toml
are used.

Each file is fully replaced on every run and depends only on the set of
variants, so running twice produces identical output. Types that cannot be
resolved yet are retried in later passes before being reported.

Examples:
  uistate generate                           # Sources from uistate.toml
  uistate generate ./...                     # Go target, all packages
  uistate generate --lang kotlin -o build/generated state.yaml
  uistate generate --strict                  # Warnings fail the run`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := logger.ComponentLogger("generate")
	writer := output.NewWriter(outputRoot(cfg, workDir), log.Named("output"))

	var written []string
	emit := func(ctx context.Context, units []*codegen.Unit) error {
		paths, err := writer.Write(ctx, units)
		written = append(written, paths...)
		return err
	}

	result, err := generate(cmd.Context(), cfg, workDir, sourcesFor(args), emit, log)
	if err != nil {
		return err
	}

	printWritten(cmd.OutOrStdout(), written, len(result.Units))
	return report(result, cfg.Strict, log)
}

// sourcesFor returns args, or the configured sources when there are none.
// Relative paths in args are made absolute against the calling directory so
// they do not move with the project directory.
func sourcesFor(args []string) []string {
	if len(args) > 0 {
		return absArgs(callDir, args)
	}
	return cfg.Sources
}

// absArgs joins manifests and ./ or ../ patterns in args onto cwd. Import
// paths and absolute paths are kept.
func absArgs(cwd string, args []string) []string {
	if cwd == "" {
		return args
	}
	out := make([]string, len(args))
	for i, a := range args {
		local := isManifest(a) || a == "." || a == ".." ||
			strings.HasPrefix(a, "./") || strings.HasPrefix(a, "../")
		if local && !filepath.IsAbs(a) {
			a = filepath.Join(cwd, a)
		}
		out[i] = a
	}
	return out
}

func printWritten(w io.Writer, written []string, total int) {
	for _, path := range written {
		fmt.Fprintf(w, "  %s %s\n", pterm.LightGreen("✓ Wrote:"), relative(path))
	}
	unchanged := total - len(written)
	fmt.Fprintf(w, "%s %d written, %d unchanged\n", pterm.Gray("→"), len(written), unchanged)
}

// relative shortens path for display when it is below the working directory
func relative(path string) string {
	if rel, err := filepath.Rel(workDir, path); err == nil && !filepath.IsAbs(rel) && rel != "" && rel[0] != '.' {
		return rel
	}
	return path
}
