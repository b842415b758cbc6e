// Package codegen turns discovered variants into extension source files.
//
// Every output file holds one entry-point helper for the root union and one
// guarded helper per variant. Helpers are sorted by accessor name before
// rendering so a file depends only on the set of variants, never on the order
// they were declared or discovered in.
package codegen

import (
	"path/filepath"
	"sort"

	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/diagnostic"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/hierarchy"
	"github.com/teranos/uistate/naming"
)

// Helper is one guarded helper: a function on Parent, named Accessor, that
// runs a block only when the value's case is Variant.
type Helper struct {
	Accessor       string
	Variant        decl.Ref
	Parent         decl.Ref
	VariantIsUnion bool
}

// Unit is one generated file. It is keyed by its root and fully replaces any
// earlier file for the same root.
type Unit struct {
	Root      decl.Ref
	Language  string
	Namespace string
	Dir       string
	FileName  string
	Content   string
	Helpers   []Helper
}

// Path returns the unit's file path.
func (u *Unit) Path() string {
	return filepath.Join(u.Dir, u.FileName)
}

// FileName returns the file name for root's extensions, e.g.
// "MainScreenStateExtensions.kt".
func FileName(gen Generator, root decl.Ref) string {
	return root.Name + "Extensions." + gen.FileExtension()
}

// Emit renders the unit for root. Variants without a derivable name and
// variants whose helper name is already taken on the same receiver are
// skipped and reported; the rest of the unit is still produced.
func Emit(gen Generator, root decl.Type, pairs []hierarchy.Pair) (*Unit, []diagnostic.Diagnostic, error) {
	rootRef := root.Ref()
	helpers, diags := Helpers(rootRef.Qualified, pairs)

	content, err := gen.Render(rootRef, helpers)
	if err != nil {
		return nil, diags, errors.Wrapf(err, "render %s extensions for %s", gen.Language(), rootRef.Qualified)
	}

	return &Unit{
		Root:      rootRef,
		Language:  gen.Language(),
		Namespace: gen.Namespace(rootRef),
		Dir:       gen.Dir(rootRef),
		FileName:  FileName(gen, rootRef),
		Content:   content,
		Helpers:   helpers,
	}, diags, nil
}

// Helpers names every pair, sorts the result by accessor and drops
// collisions. Ties are broken by parent then variant qualified name so the
// order is total.
func Helpers(root string, pairs []hierarchy.Pair) ([]Helper, []diagnostic.Diagnostic) {
	var diags []diagnostic.Diagnostic
	helpers := make([]Helper, 0, len(pairs))
	variants := make(map[string]decl.Type, len(pairs))

	for _, p := range pairs {
		v := p.Variant.Ref()
		accessor, err := naming.DeriveAccessor(v.Name)
		if err != nil {
			diags = append(diags, diagnostic.New(diagnostic.KindEmptySimpleName, root, p.Variant, err))
			continue
		}
		helpers = append(helpers, Helper{
			Accessor:       accessor,
			Variant:        v,
			Parent:         p.Parent.Ref(),
			VariantIsUnion: p.Variant.IsUnion(),
		})
		variants[v.Qualified] = p.Variant
	}

	sort.Slice(helpers, func(i, j int) bool {
		a, b := helpers[i], helpers[j]
		if a.Accessor != b.Accessor {
			return a.Accessor < b.Accessor
		}
		if a.Parent.Qualified != b.Parent.Qualified {
			return a.Parent.Qualified < b.Parent.Qualified
		}
		return a.Variant.Qualified < b.Variant.Qualified
	})

	type receiverKey struct{ parent, accessor string }
	taken := make(map[receiverKey]string, len(helpers))
	kept := helpers[:0]
	for _, h := range helpers {
		key := receiverKey{h.Parent.Qualified, h.Accessor}
		if first, dup := taken[key]; dup {
			err := errors.Wrapf(errors.ErrDuplicateAccessor, "%s.%s already generated for %s", h.Parent.Qualified, h.Accessor, first)
			diags = append(diags, diagnostic.New(diagnostic.KindDuplicateAccessor, root, variants[h.Variant.Qualified], err))
			continue
		}
		taken[key] = h.Variant.Qualified
		kept = append(kept, h)
	}

	return kept, diags
}
