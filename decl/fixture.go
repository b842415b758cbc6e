package decl

import (
	"strings"

	"github.com/teranos/uistate/errors"
)

// Fixture is an in-memory declaration, used by tests and by hosts that
// build declaration graphs themselves.
type Fixture struct {
	R          Ref
	Union      bool
	Variants   []*Fixture
	Unresolved bool
	Pos        Position
}

// Ref implements Type.
func (f *Fixture) Ref() Ref { return f.R }

// IsUnion implements Type.
func (f *Fixture) IsUnion() bool { return f.Union }

// Position implements Positioned.
func (f *Fixture) Position() Position { return f.Pos }

// Validate implements Validator.
func (f *Fixture) Validate() error {
	if f.Unresolved {
		return errors.NewUnresolvedError("%s", f.R.Qualified)
	}
	return nil
}

// DirectVariants implements Type.
func (f *Fixture) DirectVariants() ([]Type, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	variants := make([]Type, len(f.Variants))
	for i, v := range f.Variants {
		variants[i] = v
	}
	return variants, nil
}

// NewUnion creates a union fixture named qualified ("pkg.Outer.Name") with
// the given variants. The namespace is everything before the first
// upper-case segment.
func NewUnion(qualified string, variants ...*Fixture) *Fixture {
	return &Fixture{R: refFor(qualified), Union: true, Variants: variants}
}

// NewCase creates a non-union fixture.
func NewCase(qualified string) *Fixture {
	return &Fixture{R: refFor(qualified)}
}

func refFor(qualified string) Ref {
	parts := strings.Split(qualified, ".")
	ns := 0
	for ns < len(parts)-1 && !startsUpper(parts[ns]) {
		ns++
	}
	return Ref{
		Namespace: strings.Join(parts[:ns], "."),
		Name:      parts[len(parts)-1],
		Qualified: qualified,
	}
}

func startsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
