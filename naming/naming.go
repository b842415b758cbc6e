// Package naming derives helper identifiers from variant names.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/uistate/errors"
)

// DeriveAccessor lower-cases the first character of simpleName and leaves
// the rest untouched: "TwoWords" -> "twoWords", "HTTPError" -> "hTTPError".
// No word splitting is done, and a name that does not start with valid UTF-8
// is returned unchanged.
func DeriveAccessor(simpleName string) (string, error) {
	if simpleName == "" {
		return "", errors.Wrap(errors.ErrEmptySimpleName, "cannot derive accessor")
	}
	r, size := utf8.DecodeRuneInString(simpleName)
	if r == utf8.RuneError && size == 1 {
		// invalid leading byte is kept as is
		return simpleName, nil
	}
	return string(unicode.ToLower(r)) + simpleName[size:], nil
}

// Exported upper-cases the first character of an accessor so it can be used
// as an exported Go identifier: "twoWords" -> "TwoWords".
func Exported(accessor string) string {
	if accessor == "" {
		return accessor
	}
	r, size := utf8.DecodeRuneInString(accessor)
	return string(unicode.ToUpper(r)) + accessor[size:]
}

// IsExported reports whether name would be exported in Go.
func IsExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// PackageSegment lower-cases a root type's simple name for use as a
// namespace segment: "MainScreenState" -> "mainscreenstate".
func PackageSegment(simpleName string) string {
	return strings.ToLower(simpleName)
}
