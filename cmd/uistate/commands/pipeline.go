package commands

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/uistate/codegen"
	"github.com/teranos/uistate/codegen/golang"
	"github.com/teranos/uistate/codegen/kotlin"
	"github.com/teranos/uistate/config"
	"github.com/teranos/uistate/decl/gosource"
	"github.com/teranos/uistate/decl/manifest"
	"github.com/teranos/uistate/diagnostic"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/logger"
	"github.com/teranos/uistate/processor"
)

// newGenerator returns the emitter target for lang
func newGenerator(lang string) (codegen.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case config.LangGo:
		return golang.NewGenerator(), nil
	case config.LangKotlin, "kt":
		return kotlin.NewGenerator(), nil
	default:
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrUnknownLanguage, "%q", lang),
			"supported languages are go and kotlin",
		)
	}
}

// isManifest reports whether source names a declaration manifest rather than
// a package pattern.
func isManifest(source string) bool {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml", ".toml", ".json":
		return true
	default:
		return false
	}
}

// splitSources separates package patterns from manifest files. Manifests are
// made absolute against dir.
func splitSources(dir string, sources []string) (patterns, manifests []string) {
	for _, s := range sources {
		if !isManifest(s) {
			patterns = append(patterns, s)
			continue
		}
		if !filepath.IsAbs(s) {
			s = filepath.Join(dir, s)
		}
		manifests = append(manifests, s)
	}
	sort.Strings(manifests)
	return patterns, manifests
}

// outputRoot returns where units with a relative directory are written
func outputRoot(c *config.Config, dir string) string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(dir, c.Output)
}

// generate runs every pass over sources and returns the combined result.
// emit, when set, receives the units of each pass before the next begins.
func generate(ctx context.Context, c *config.Config, dir string, sources []string, emit processor.EmitFunc, log *zap.SugaredLogger) (*processor.Result, error) {
	gen, err := newGenerator(c.Lang)
	if err != nil {
		return nil, err
	}

	opts := []processor.Option{
		processor.WithLogger(log.Named("processor")),
		processor.WithMaxPasses(c.MaxPasses),
	}
	if emit != nil {
		opts = append(opts, processor.WithEmit(emit))
	}
	proc := processor.New(gen, opts...)

	patterns, manifests := splitSources(dir, sources)
	total := &processor.Result{}

	if len(patterns) > 0 {
		loader := gosource.NewLoader(gosource.Config{
			Dir:        dir,
			Directive:  c.Directive,
			BuildFlags: c.BuildFlags,
		}, log.Named("gosource"))

		roots, err := loader.Load(ctx, patterns...)
		if err != nil {
			return nil, err
		}
		res, err := proc.Run(ctx, roots, loader)
		if err != nil {
			return nil, err
		}
		merge(total, res)
	}

	if len(manifests) > 0 {
		reader := manifest.NewReader(log.Named("manifest"), manifests...)
		roots, err := reader.Load(ctx)
		if err != nil {
			return nil, err
		}
		res, err := proc.Run(ctx, roots, reader)
		if err != nil {
			return nil, err
		}
		merge(total, res)
	}

	log.Infow("Generation finished",
		logger.FieldLang, gen.Language(),
		logger.FieldCount, len(total.Units),
		"diagnostics", len(total.Diagnostics))
	return total, nil
}

func merge(into, from *processor.Result) {
	into.Units = append(into.Units, from.Units...)
	into.Diagnostics = append(into.Diagnostics, from.Diagnostics...)
	into.Deferred = append(into.Deferred, from.Deferred...)
}

// report logs every diagnostic and returns an error when the result should
// fail the command.
func report(result *processor.Result, strict bool, log *zap.SugaredLogger) error {
	warnings := 0
	for _, d := range result.Diagnostics {
		d.Log(log)
		if d.Severity == diagnostic.SeverityWarning {
			warnings++
		}
	}

	if result.HasErrors() {
		return errors.Newf("generation failed with %d errors", len(result.Diagnostics)-warnings)
	}
	if strict && warnings > 0 {
		return errors.WithHint(
			errors.Newf("generation produced %d warnings", warnings),
			"strict mode turns warnings into errors",
		)
	}
	return nil
}
