// Package gosource reads sealed interface hierarchies from Go packages.
//
// Go has no sealed keyword. An interface with at least one unexported method
// can only be implemented inside its own package, which fixes its set of cases
// at compile time; gosource treats such interfaces as unions. A root is a
// union whose doc comment carries the uistate directive:
//
//	// State is what the screen shows.
//	//
//	//uistate:sealed
//	type State interface{ isState() }
//
// The cases of a union are the exported named types of its package that
// implement it. Interfaces that embed a union are unions themselves, so
// hierarchies nest:
//
//	type Nested interface {
//		State
//		isNested()
//	}
package gosource

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/logger"
)

// DefaultDirective marks a root when no other directive is configured.
const DefaultDirective = "uistate:sealed"

// LoadMode is the go/packages mode needed to find roots and their cases.
const LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo

// Config controls how packages are loaded.
type Config struct {
	// Dir is the directory the go command runs in. Empty means the
	// current directory.
	Dir string

	// Directive marks a root, without the leading "//".
	Directive string

	// BuildFlags are passed to the go command (e.g. "-tags=integration").
	BuildFlags []string
}

// Loader finds marked roots in Go packages.
type Loader struct {
	cfg Config
	log *zap.SugaredLogger
}

// NewLoader creates a loader. A nil log discards output.
func NewLoader(cfg Config, log *zap.SugaredLogger) *Loader {
	if cfg.Directive == "" {
		cfg.Directive = DefaultDirective
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loader{cfg: cfg, log: log}
}

// Load loads the packages matching patterns and returns every marked root,
// sorted by qualified name. Packages with type errors still contribute their
// roots; those roots report themselves unresolved.
func (l *Loader) Load(ctx context.Context, patterns ...string) ([]decl.Type, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Mode:       LoadMode,
		Context:    ctx,
		Dir:        l.cfg.Dir,
		BuildFlags: l.cfg.BuildFlags,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages %s", strings.Join(patterns, " "))
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages found for %s", strings.Join(patterns, " "))
	}

	var roots []decl.Type
	for _, pkg := range pkgs {
		if pkg.Types == nil || pkg.TypesInfo == nil {
			l.log.Warnw("Package could not be loaded",
				logger.FieldPackage, pkg.PkgPath,
				logger.FieldError, firstError(pkg))
			continue
		}
		if len(pkg.Errors) > 0 {
			l.log.Debugw("Package has errors, its roots will be deferred",
				logger.FieldPackage, pkg.PkgPath,
				logger.FieldError, firstError(pkg),
				logger.FieldCount, len(pkg.Errors))
		}
		roots = append(roots, l.rootsOf(newIndex(pkg, l.cfg.Dir))...)
	}

	sort.Slice(roots, func(i, j int) bool {
		return roots[i].Ref().Qualified < roots[j].Ref().Qualified
	})

	l.log.Debugw("Loaded packages",
		logger.FieldCount, len(pkgs),
		"roots", len(roots))

	return roots, nil
}

// Reload loads the packages of deferred roots again and returns fresh
// declarations for those roots. Roots that are no longer marked are dropped.
func (l *Loader) Reload(ctx context.Context, deferred []decl.Type) ([]decl.Type, error) {
	wanted := make(map[string]bool, len(deferred))
	pkgPaths := make(map[string]bool)
	for _, d := range deferred {
		ref := d.Ref()
		wanted[ref.Qualified] = true
		pkgPaths[ref.Namespace] = true
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	patterns := make([]string, 0, len(pkgPaths))
	for p := range pkgPaths {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	roots, err := l.Load(ctx, patterns...)
	if err != nil {
		return nil, err
	}

	var fresh []decl.Type
	for _, r := range roots {
		q := r.Ref().Qualified
		if wanted[q] {
			fresh = append(fresh, r)
			delete(wanted, q)
		}
	}
	for q := range wanted {
		l.log.Debugw("Deferred root is no longer marked", logger.FieldRoot, q)
	}
	return fresh, nil
}

// rootsOf returns the marked type declarations of one package.
func (l *Loader) rootsOf(idx *index) []decl.Type {
	var roots []decl.Type
	for _, file := range idx.pkg.Syntax {
		for _, d := range file.Decls {
			gen, ok := d.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				if !hasDirective(doc, l.cfg.Directive) {
					continue
				}
				obj, ok := idx.pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}
				if !obj.Exported() {
					l.log.Warnw("Marked type is unexported, generated code could not refer to it",
						logger.FieldRoot, idx.qualified(obj))
					continue
				}
				l.log.Debugw("Found marked type", logger.FieldRoot, idx.qualified(obj))
				roots = append(roots, idx.declFor(obj, obj, false))
			}
		}
	}
	return roots
}

// hasDirective reports whether doc contains the directive line
// "//<directive>", optionally followed by arguments.
func hasDirective(doc *ast.CommentGroup, directive string) bool {
	if doc == nil {
		return false
	}
	marker := "//" + directive
	for _, c := range doc.List {
		text := strings.TrimSpace(c.Text)
		if text == marker || strings.HasPrefix(text, marker+" ") {
			return true
		}
	}
	return false
}

func firstError(pkg *packages.Package) string {
	if len(pkg.Errors) == 0 {
		return ""
	}
	return pkg.Errors[0].Error()
}

// relativeTo shortens path for diagnostics when it lies below dir.
func relativeTo(dir, path string) string {
	if dir == "" {
		return path
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(abs, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
