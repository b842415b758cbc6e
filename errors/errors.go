// Package errors provides error handling for uistate.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing diagnostics
//
// Usage:
//
//	// Wrap with context
//	if err := loadPackages(); err != nil {
//	    return errors.Wrap(err, "failed to load packages")
//	}
//
//	// Mark a declaration as not yet resolvable
//	return errors.Wrapf(errors.ErrUnresolved, "variant %s", name)
//
//	// Check errors
//	if errors.IsUnresolved(err) {
//	    // defer to the next pass
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the generation pipeline.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotSealed indicates a marked declaration is not a union type
	ErrNotSealed = New("not a sealed type")

	// ErrUnresolved indicates a declaration cannot be fully resolved in this pass
	ErrUnresolved = New("declaration not yet resolved")

	// ErrEmptySimpleName indicates a variant has no name to derive an accessor from
	ErrEmptySimpleName = New("empty simple name")

	// ErrDuplicateAccessor indicates two helpers on one receiver would share a name
	ErrDuplicateAccessor = New("duplicate accessor")

	// ErrInvalidManifest indicates a declaration manifest could not be decoded
	ErrInvalidManifest = New("invalid manifest")

	// ErrUnknownLanguage indicates an unsupported target language was requested
	ErrUnknownLanguage = New("unknown language")

	// ErrStale indicates generated files on disk differ from a fresh generation
	ErrStale = New("generated files are out of date")
)

// IsUnresolved checks if an error is or wraps ErrUnresolved
func IsUnresolved(err error) bool {
	return err != nil && Is(err, ErrUnresolved)
}

// IsNotSealed checks if an error is or wraps ErrNotSealed
func IsNotSealed(err error) bool {
	return err != nil && Is(err, ErrNotSealed)
}

// NewUnresolvedError creates an unresolved-declaration error with a formatted message
func NewUnresolvedError(format string, args ...interface{}) error {
	return Wrapf(ErrUnresolved, format, args...)
}

// NewNotSealedError creates a not-sealed error for the named declaration
func NewNotSealedError(qualifiedName string) error {
	return WithHint(
		Wrapf(ErrNotSealed, "%s", qualifiedName),
		"the uistate marker only works on sealed types",
	)
}
