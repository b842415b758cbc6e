package manifest

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/logger"
)

// Set is the declaration graph of one or more manifests.
type Set struct {
	decls map[string]*node // qualified name -> declaration
	roots []*node
}

// NewSet builds the graph of the given files. files maps a manifest path to
// its decoded contents; the path is only used for positions and errors.
func NewSet(files map[string]*File) (*Set, error) {
	s := &Set{decls: make(map[string]*node)}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		f := files[p]
		for i := range f.Types {
			if _, err := s.add(p, f.Package, "", &f.Types[i]); err != nil {
				return nil, err
			}
		}
	}

	if err := s.checkCycles(); err != nil {
		return nil, err
	}

	sort.Slice(s.roots, func(i, j int) bool {
		return s.roots[i].ref.Qualified < s.roots[j].ref.Qualified
	})
	return s, nil
}

// Load reads and decodes every manifest in paths into one Set.
func Load(paths ...string) (*Set, error) {
	files := make(map[string]*File, len(paths))
	for _, p := range paths {
		f, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		files[p] = f
	}
	return NewSet(files)
}

// Roots returns the marked declarations, sorted by qualified name.
func (s *Set) Roots() []decl.Type {
	roots := make([]decl.Type, len(s.roots))
	for i, r := range s.roots {
		roots[i] = r
	}
	return roots
}

// Lookup returns the declaration with the given qualified name.
func (s *Set) Lookup(qualified string) (decl.Type, bool) {
	n, ok := s.decls[qualified]
	if !ok {
		return nil, false
	}
	return n, true
}

func (s *Set) add(file, pkg, outer string, d *Decl) (*node, error) {
	if d.Ref != "" {
		return &node{set: s, file: file, pkg: pkg, target: d.Ref}, nil
	}

	qualified := d.Qualified
	if qualified == "" {
		if outer != "" {
			qualified = join(outer, d.Name)
		} else {
			qualified = join(pkg, d.Name)
		}
	}

	n := &node{
		set:  s,
		file: file,
		pkg:  pkg,
		kind: d.Kind,
		ref: decl.Ref{
			Namespace: pkg,
			Name:      d.Name,
			Qualified: qualified,
		},
	}

	if d.Name != "" {
		if other, dup := s.decls[qualified]; dup {
			return nil, errors.Wrapf(errors.ErrInvalidManifest,
				"%s declared in both %s and %s", qualified, other.file, file)
		}
		s.decls[qualified] = n
	}
	if d.Marked {
		s.roots = append(s.roots, n)
	}

	for i := range d.Variants {
		child, err := s.add(file, pkg, qualified, &d.Variants[i])
		if err != nil {
			return nil, err
		}
		n.variants = append(n.variants, child)
	}
	return n, nil
}

// resolve follows a ref entry. Unqualified refs are looked up in the
// referring manifest's package first.
func (s *Set) resolve(n *node) (*node, bool) {
	if n.target == "" {
		return n, true
	}
	if n.pkg != "" {
		if t, ok := s.decls[n.pkg+"."+n.target]; ok {
			return t, true
		}
	}
	t, ok := s.decls[n.target]
	return t, ok
}

// checkCycles rejects hierarchies that contain themselves through refs.
// Refs that do not resolve yet are skipped.
func (s *Set) checkCycles() error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[*node]int)

	var visit func(n *node) error
	visit = func(n *node) error {
		switch state[n] {
		case active:
			return errors.Wrapf(errors.ErrInvalidManifest, "%s contains itself", n.ref.Qualified)
		case done:
			return nil
		}
		state[n] = active
		for _, child := range n.variants {
			target, ok := s.resolve(child)
			if !ok {
				continue
			}
			if err := visit(target); err != nil {
				return err
			}
		}
		state[n] = done
		return nil
	}

	names := make([]string, 0, len(s.decls))
	for q := range s.decls {
		names = append(names, q)
	}
	sort.Strings(names)
	for _, q := range names {
		if err := visit(s.decls[q]); err != nil {
			return err
		}
	}
	return nil
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// node is one declaration of a Set, or a ref to one.
type node struct {
	set      *Set
	file     string
	pkg      string
	kind     Kind
	ref      decl.Ref
	variants []*node
	target   string // set on ref entries
}

// Ref implements decl.Type.
func (n *node) Ref() decl.Ref { return n.ref }

// IsUnion implements decl.Type.
func (n *node) IsUnion() bool { return n.kind.IsUnion() }

// Position implements decl.Positioned.
func (n *node) Position() decl.Position { return decl.Position{File: n.file} }

// DirectVariants implements decl.Type.
func (n *node) DirectVariants() ([]decl.Type, error) {
	variants := make([]decl.Type, 0, len(n.variants))
	for _, child := range n.variants {
		target, ok := n.set.resolve(child)
		if !ok {
			return nil, errors.NewUnresolvedError("%s refers to unknown declaration %s", n.ref.Qualified, child.target)
		}
		variants = append(variants, target)
	}
	return variants, nil
}

// Reader loads roots from a fixed list of manifest files. Every load reads
// the files again, so a deferred root is retried against whatever the host
// has written since.
type Reader struct {
	paths []string
	log   *zap.SugaredLogger
}

// NewReader creates a reader for paths. A nil log discards output.
func NewReader(log *zap.SugaredLogger, paths ...string) *Reader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Reader{paths: paths, log: log}
}

// Load reads every manifest and returns the marked roots.
func (r *Reader) Load(ctx context.Context) ([]decl.Type, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	set, err := Load(r.paths...)
	if err != nil {
		return nil, err
	}
	roots := set.Roots()
	r.log.Debugw("Loaded manifests",
		logger.FieldCount, len(r.paths),
		"roots", len(roots),
		logger.FieldFile, strings.Join(r.paths, ","))
	return roots, nil
}

// Reload reads the manifests again and returns fresh declarations for the
// deferred roots that are still marked.
func (r *Reader) Reload(ctx context.Context, deferred []decl.Type) ([]decl.Type, error) {
	if len(deferred) == 0 {
		return nil, nil
	}
	roots, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(deferred))
	for _, d := range deferred {
		wanted[d.Ref().Qualified] = true
	}
	var fresh []decl.Type
	for _, root := range roots {
		if wanted[root.Ref().Qualified] {
			fresh = append(fresh, root)
		}
	}
	return fresh, nil
}
