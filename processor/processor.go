// Package processor drives generation over the marked roots of a build.
//
// A pass takes a set of roots and, for each one, validates it, walks its
// hierarchy, names the helpers and renders a unit. Roots that cannot be
// resolved yet are handed back as the deferred set; Run feeds them into the
// next pass until they resolve or no further progress is possible.
package processor

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/teranos/uistate/codegen"
	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/diagnostic"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/hierarchy"
	"github.com/teranos/uistate/logger"
)

// DefaultMaxPasses bounds Run when no limit is configured.
const DefaultMaxPasses = 3

// Pass is the input of one processing round.
type Pass struct {
	Number int
	Roots  []decl.Type
}

// Result is the output of one or more passes.
type Result struct {
	Units       []*codegen.Unit
	Diagnostics []diagnostic.Diagnostic

	// Deferred holds the roots that could not be resolved and should be
	// passed into the next pass.
	Deferred []decl.Type

	reasons map[string]error
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	return diagnostic.HasErrors(r.Diagnostics)
}

func (r *Result) deferRoot(root decl.Type, err error) {
	if r.reasons == nil {
		r.reasons = make(map[string]error)
	}
	r.Deferred = append(r.Deferred, root)
	r.reasons[root.Ref().Qualified] = err
}

// Reloader re-resolves deferred roots before they are retried.
type Reloader interface {
	Reload(ctx context.Context, deferred []decl.Type) ([]decl.Type, error)
}

// EmitFunc receives the units of a pass before the next pass starts.
type EmitFunc func(ctx context.Context, units []*codegen.Unit) error

// Processor runs passes for one target language.
type Processor struct {
	gen       codegen.Generator
	log       *zap.SugaredLogger
	maxPasses int
	emit      EmitFunc
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger. The default discards output.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *Processor) { p.log = log }
}

// WithMaxPasses limits the number of passes Run performs.
func WithMaxPasses(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxPasses = n
		}
	}
}

// WithEmit makes Run hand every pass's units to fn before retrying deferred
// roots, so files written by one pass can resolve roots of the next.
func WithEmit(fn EmitFunc) Option {
	return func(p *Processor) { p.emit = fn }
}

// New creates a processor rendering with gen.
func New(gen codegen.Generator, opts ...Option) *Processor {
	p := &Processor{
		gen:       gen,
		log:       zap.NewNop().Sugar(),
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs a single pass. Roots are handled in qualified-name order and
// independently: a failing root produces a diagnostic and never stops the
// others. The only error returned is ctx's.
func (p *Processor) Process(ctx context.Context, pass Pass) (*Result, error) {
	roots := sortedUnique(pass.Roots)
	result := &Result{}

	log := p.log.With(logger.FieldPass, pass.Number, logger.FieldLang, p.gen.Language())
	log.Debugw("Starting pass", logger.FieldCount, len(roots))

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.processRoot(log, root, result)
	}

	log.Debugw("Finished pass",
		"units", len(result.Units),
		logger.FieldDeferred, len(result.Deferred),
		"diagnostics", len(result.Diagnostics))

	return result, nil
}

func (p *Processor) processRoot(log *zap.SugaredLogger, root decl.Type, result *Result) {
	ref := root.Ref()

	if err := decl.Validate(root); err != nil {
		log.Debugw("Deferring root", logger.FieldRoot, ref.Qualified, logger.FieldError, err.Error())
		result.deferRoot(root, err)
		return
	}

	if !root.IsUnion() {
		err := errors.NewNotSealedError(ref.Qualified)
		result.Diagnostics = append(result.Diagnostics, diagnostic.New(diagnostic.KindNotSealed, ref.Qualified, root, err))
		return
	}

	pairs, err := hierarchy.Walk(root)
	if errors.IsUnresolved(err) {
		log.Debugw("Deferring root", logger.FieldRoot, ref.Qualified, logger.FieldError, err.Error())
		result.deferRoot(root, err)
		return
	}
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, diagnostic.New(diagnostic.KindRender, ref.Qualified, root, err))
		return
	}

	unit, diags, err := codegen.Emit(p.gen, root, pairs)
	result.Diagnostics = append(result.Diagnostics, diags...)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, diagnostic.New(diagnostic.KindRender, ref.Qualified, root, err))
		return
	}

	log.Infow("Generated extensions",
		logger.FieldRoot, ref.Qualified,
		logger.FieldCount, len(unit.Helpers),
		logger.FieldFile, unit.Path())
	result.Units = append(result.Units, unit)
}

// Run processes roots, retrying deferred ones until none are left, a retry
// resolves nothing new, or the pass limit is reached. The first pass is
// always retried once, since a reload may be all a lone root needs. Roots still deferred
// at the end are reported as UnresolvedSymbolDeferral diagnostics. reloader
// may be nil, in which case deferred roots are retried as they are.
func (p *Processor) Run(ctx context.Context, roots []decl.Type, reloader Reloader) (*Result, error) {
	total := &Result{}
	pending := roots

	for n := 1; ; n++ {
		res, err := p.Process(ctx, Pass{Number: n, Roots: pending})
		if err != nil {
			return nil, err
		}
		total.Units = append(total.Units, res.Units...)
		total.Diagnostics = append(total.Diagnostics, res.Diagnostics...)

		if p.emit != nil && len(res.Units) > 0 {
			if err := p.emit(ctx, res.Units); err != nil {
				return nil, errors.Wrapf(err, "emit pass %d", n)
			}
		}

		if len(res.Deferred) == 0 {
			break
		}

		progressed := len(res.Deferred) < len(sortedUnique(pending))
		if (!progressed && n > 1) || n >= p.maxPasses {
			p.log.Debugw("Giving up on deferred roots",
				logger.FieldPass, n,
				logger.FieldDeferred, len(res.Deferred),
				"progressed", progressed)
			for _, root := range res.Deferred {
				reason := res.reasons[root.Ref().Qualified]
				err := errors.WithHint(
					errors.Wrapf(reason, "still unresolved after %d passes", n),
					"fix the errors in the declaring package and run again",
				)
				total.Diagnostics = append(total.Diagnostics,
					diagnostic.New(diagnostic.KindUnresolved, root.Ref().Qualified, root, err))
			}
			break
		}

		pending = res.Deferred
		if reloader != nil {
			pending, err = reloader.Reload(ctx, res.Deferred)
			if err != nil {
				return nil, errors.Wrapf(err, "reload deferred roots for pass %d", n+1)
			}
			if len(pending) == 0 {
				break
			}
		}
	}

	return total, nil
}

// sortedUnique orders roots by qualified name and drops repeats.
func sortedUnique(roots []decl.Type) []decl.Type {
	out := make([]decl.Type, 0, len(roots))
	seen := make(map[string]bool, len(roots))
	for _, r := range roots {
		q := r.Ref().Qualified
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Ref().Qualified < out[j].Ref().Qualified
	})
	return out
}
