package gosource

import (
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"

	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/errors"
)

// index holds the exported named types of one loaded package.
type index struct {
	pkg    *packages.Package
	dir    string
	named  []*types.TypeName // exported, non-generic, sorted by name
	unions []*types.TypeName // the sealed interfaces among named
}

func newIndex(pkg *packages.Package, dir string) *index {
	idx := &index{pkg: pkg, dir: dir}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() || tn.IsAlias() {
			continue
		}
		if named, ok := tn.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
			continue
		}
		idx.named = append(idx.named, tn)
		if isUnion(tn) {
			idx.unions = append(idx.unions, tn)
		}
	}
	return idx
}

func (idx *index) qualified(obj *types.TypeName) string {
	return idx.pkg.PkgPath + "." + obj.Name()
}

// declFor wraps obj as a member of the hierarchy rooted at root.
func (idx *index) declFor(obj, root *types.TypeName, pointer bool) *typeDecl {
	return &typeDecl{idx: idx, obj: obj, root: root, pointer: pointer}
}

// parentOf returns the most specific union within root's hierarchy that t
// implements. Ties between unrelated unions go to the first by name, so a
// type implementing two sibling unions has exactly one parent.
func (idx *index) parentOf(t, root *types.TypeName) *types.TypeName {
	var candidates []*types.TypeName
	for _, u := range idx.unions {
		if u == t {
			continue
		}
		if u != root && !moreSpecific(u, root) {
			continue
		}
		if ok, _ := implements(t.Type(), interfaceOf(u)); ok {
			candidates = append(candidates, u)
		}
	}

	for _, c := range candidates {
		minimal := true
		for _, other := range candidates {
			if other != c && moreSpecific(other, c) {
				minimal = false
				break
			}
		}
		if minimal {
			return c
		}
	}
	return nil
}

// typeDecl is a named type of a loaded package.
type typeDecl struct {
	idx     *index
	obj     *types.TypeName
	root    *types.TypeName // hierarchy obj was reached from
	pointer bool
}

// Ref implements decl.Type.
func (d *typeDecl) Ref() decl.Ref {
	ref := decl.Ref{
		Namespace:   d.idx.pkg.PkgPath,
		PackageName: d.idx.pkg.Name,
		Name:        d.obj.Name(),
		Qualified:   d.idx.qualified(d.obj),
		Pointer:     d.pointer,
	}
	if len(d.idx.pkg.GoFiles) > 0 {
		ref.Dir = filepath.Dir(d.idx.pkg.GoFiles[0])
	}
	return ref
}

// IsUnion implements decl.Type.
func (d *typeDecl) IsUnion() bool {
	return isUnion(d.obj)
}

// Position implements decl.Positioned.
func (d *typeDecl) Position() decl.Position {
	pos := d.idx.pkg.Fset.Position(d.obj.Pos())
	return decl.Position{File: relativeTo(d.idx.dir, pos.Filename), Line: pos.Line}
}

// Validate implements decl.Validator. A package with errors cannot be
// trusted to list every case of a union, so all of its declarations wait for
// the next pass.
func (d *typeDecl) Validate() error {
	if errs := d.idx.pkg.Errors; len(errs) > 0 {
		return errors.WithDetail(
			errors.NewUnresolvedError("package %s has %d errors", d.idx.pkg.PkgPath, len(errs)),
			errs[0].Error(),
		)
	}
	if d.obj.Type().Underlying() == types.Typ[types.Invalid] {
		return errors.NewUnresolvedError("type %s is invalid", d.idx.qualified(d.obj))
	}
	return nil
}

// DirectVariants implements decl.Type. Only exported implementers are
// returned; unexported ones cannot be named by generated code in another
// package.
func (d *typeDecl) DirectVariants() ([]decl.Type, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if !d.IsUnion() {
		return nil, nil
	}
	iface := interfaceOf(d.obj)

	var variants []decl.Type
	for _, t := range d.idx.named {
		if t == d.obj {
			continue
		}
		ok, pointer := implements(t.Type(), iface)
		if !ok {
			continue
		}
		if types.IsInterface(t.Type()) && !moreSpecific(t, d.obj) {
			continue
		}
		if d.idx.parentOf(t, d.root) != d.obj {
			continue
		}
		variants = append(variants, d.idx.declFor(t, d.root, pointer))
	}
	return variants, nil
}

// isUnion reports whether tn is an interface with an unexported method.
func isUnion(tn *types.TypeName) bool {
	iface := interfaceOf(tn)
	if iface == nil {
		return false
	}
	for i := 0; i < iface.NumMethods(); i++ {
		if !iface.Method(i).Exported() {
			return true
		}
	}
	return false
}

func interfaceOf(tn *types.TypeName) *types.Interface {
	iface, _ := tn.Type().Underlying().(*types.Interface)
	return iface
}

// implements reports whether t implements iface, and whether only *t does.
func implements(t types.Type, iface *types.Interface) (ok, pointer bool) {
	if iface == nil {
		return false, false
	}
	if types.Implements(t, iface) {
		return true, false
	}
	if !types.IsInterface(t) && types.Implements(types.NewPointer(t), iface) {
		return true, true
	}
	return false, false
}

// moreSpecific reports whether union a embeds union b without b embedding a.
func moreSpecific(a, b *types.TypeName) bool {
	ia, ib := interfaceOf(a), interfaceOf(b)
	if ia == nil || ib == nil {
		return false
	}
	return types.Implements(a.Type(), ib) && !types.Implements(b.Type(), ia)
}
