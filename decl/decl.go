// Package decl describes the declaration graph the generator consumes.
//
// A host (the Go package loader, a declaration manifest, a test fixture)
// exposes each declaration through the Type interface. The generator never
// looks at a host's real declaration API; it only asks whether a declaration
// is a union and what its direct variants are.
package decl

// Ref identifies a declaration.
type Ref struct {
	// Namespace is the declaring package: a Go import path, or a dotted
	// package name for manifest declarations.
	Namespace string

	// PackageName is the Go package name (e.g. "state"). Empty for
	// declarations that do not come from Go source.
	PackageName string

	// Name is the simple name (e.g. "Loading").
	Name string

	// Qualified is the fully-qualified name (e.g. "app.ui.State.Loading").
	Qualified string

	// Pointer is set when only the pointer type implements the union,
	// so generated Go code must refer to *Name.
	Pointer bool

	// Dir is the directory holding the declaring package's sources, when
	// known. Go extensions are generated below it.
	Dir string
}

// Type is one declaration in a union hierarchy.
type Type interface {
	// Ref identifies the declaration.
	Ref() Ref

	// IsUnion reports whether the declaration is a sealed type whose
	// complete set of cases is fixed at declaration time.
	IsUnion() bool

	// DirectVariants returns the cases declared directly by this union,
	// in declaration order. Returns an error wrapping errors.ErrUnresolved
	// when the declaration cannot be fully resolved yet.
	DirectVariants() ([]Type, error)
}

// Position is a source location used in diagnostics.
type Position struct {
	File string
	Line int
}

// Positioned is implemented by declarations that know where they are declared.
type Positioned interface {
	Position() Position
}

// PositionOf returns the source position of t, or the zero Position.
func PositionOf(t Type) Position {
	if p, ok := t.(Positioned); ok {
		return p.Position()
	}
	return Position{}
}

// Validator is implemented by declarations that can tell, before anything
// else is asked of them, whether they are fully resolved. Validate returns an
// error wrapping errors.ErrUnresolved when the declaration should be retried
// in a later pass.
type Validator interface {
	Validate() error
}

// Validate returns t's validation error, or nil when t does not implement
// Validator.
func Validate(t Type) error {
	if v, ok := t.(Validator); ok {
		return v.Validate()
	}
	return nil
}
