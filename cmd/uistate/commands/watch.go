package commands

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teranos/uistate/config"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/logger"
	"github.com/teranos/uistate/output"
)

// WatchCmd regenerates extensions whenever sources change
var WatchCmd = &cobra.Command{
	Use:   "watch [patterns|manifests...]",
	Short: "Regenerate extensions whenever sources change",
	Long: `Generate once, then regenerate every time a Go file or manifest changes.

Changes are debounced (watch.debounce_ms in uistate.toml) and files written by
uistate itself never trigger another run. Only directories are watched:
package patterns must be relative paths such as ./... or ./ui/state.

Examples:
  uistate watch
  uistate watch -v ./ui/...`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.ComponentLogger("watch")
	sources := sourcesFor(args)

	paths, err := watchPaths(workDir, sources, log)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.WithHint(
			errors.New("nothing to watch"),
			"use relative package patterns such as ./... or manifest files",
		)
	}

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	watcher, err := config.NewWatcher(debounce, log)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(paths...); err != nil {
		return err
	}

	writer := output.NewWriter(outputRoot(cfg, workDir), log.Named("output"))
	writer.BeforeWrite = func(path string) { watcher.MarkOwnWrite(path) }

	regenerate := func(ctx context.Context, changed []string) {
		runLog := logger.ChildLogger(log, logger.FieldRunID, uuid.New().String())
		if len(changed) > 0 {
			runLog.Infow("Sources changed, regenerating",
				logger.FieldCount, len(changed),
				logger.FieldFile, strings.Join(changed, ","))
		}

		result, err := generate(ctx, cfg, workDir, sources, writer.Emit, runLog)
		if err != nil {
			runLog.Errorw("Generation failed", logger.FieldError, err)
			return
		}
		if err := report(result, cfg.Strict, runLog); err != nil {
			runLog.Warnw("Generation finished with problems", logger.FieldError, err)
		}
	}

	regenerate(ctx, nil)
	pterm.Info.Printfln("Watching %d directories, press Ctrl+C to stop", len(paths))

	if err := watcher.Run(ctx, regenerate); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watchPaths returns the directories whose files feed sources. Package
// patterns are resolved on disk; import paths cannot be and are skipped.
func watchPaths(dir string, sources []string, log *zap.SugaredLogger) ([]string, error) {
	seen := make(map[string]bool)
	add := func(p string) { seen[filepath.Clean(p)] = true }

	patterns, manifests := splitSources(dir, sources)
	for _, m := range manifests {
		// the directory survives editors that save by renaming
		add(filepath.Dir(m))
	}

	for _, p := range patterns {
		if !isLocalPattern(p) {
			log.Warnw("Pattern is not a directory, its changes are not watched", "pattern", p)
			continue
		}

		base, recursive := strings.CutSuffix(p, "/...")
		if base == "" {
			base = "."
		}
		if !filepath.IsAbs(base) {
			base = filepath.Join(dir, base)
		}

		if !recursive {
			add(base)
			continue
		}
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != base && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %s", base)
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func isLocalPattern(p string) bool {
	return p == "." || p == "./..." || strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") || filepath.IsAbs(p)
}

// skipDir mirrors the directories the go command ignores in ./... patterns
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "testdata" || name == "vendor"
}
