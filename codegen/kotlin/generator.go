// Package kotlin renders Kotlin extension functions for sealed hierarchies.
//
// The output matches the reference layout exactly: an invoke operator on the
// root followed by one inline guarded helper per variant, each using an `is`
// smart cast to narrow the receiver.
package kotlin

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/teranos/uistate/codegen"
	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/naming"
)

// Generator implements codegen.Generator for Kotlin
type Generator struct{}

// NewGenerator creates a new Kotlin generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "kotlin"
func (g *Generator) Language() string {
	return "kotlin"
}

// FileExtension returns "kt"
func (g *Generator) FileExtension() string {
	return "kt"
}

// Namespace returns "<package>.<root-lower>.extensions"
func (g *Generator) Namespace(root decl.Ref) string {
	segment := naming.PackageSegment(root.Name)
	if root.Namespace == "" {
		return segment + ".extensions"
	}
	return root.Namespace + "." + segment + ".extensions"
}

// Dir returns the namespace as a relative source directory.
func (g *Generator) Dir(root decl.Ref) string {
	return strings.ReplaceAll(g.Namespace(root), ".", "/")
}

// Render produces the extensions file for root. Names that are not dotted
// Kotlin identifiers, such as Go import paths, are rejected.
func (g *Generator) Render(root decl.Ref, helpers []codegen.Helper) (string, error) {
	if err := checkNames(g.Namespace(root), root, helpers); err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("package %s\n", QualifiedName(g.Namespace(root))))
	sb.WriteString("\n")

	rootName := QualifiedName(root.Qualified)
	sb.WriteString(fmt.Sprintf("inline operator fun %s.invoke(body: %s.() -> Unit) {\n", rootName, rootName))
	sb.WriteString("\tbody()\n")
	sb.WriteString("}\n")

	for _, h := range helpers {
		parent := QualifiedName(h.Parent.Qualified)
		variant := QualifiedName(h.Variant.Qualified)

		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("inline fun %s.%s(body: %s.() -> Unit): %s {\n", parent, Identifier(h.Accessor), variant, parent))
		sb.WriteString(fmt.Sprintf("\tif (this is %s) body()\n", variant))
		sb.WriteString("\treturn this\n")
		sb.WriteString("}\n")
	}

	return sb.String(), nil
}

// hardKeywords cannot be used as identifiers in Kotlin without backticks.
var hardKeywords = map[string]bool{
	"as": true, "break": true, "class": true, "continue": true, "do": true,
	"else": true, "false": true, "for": true, "fun": true, "if": true,
	"in": true, "interface": true, "is": true, "null": true, "object": true,
	"package": true, "return": true, "super": true, "this": true, "throw": true,
	"true": true, "try": true, "typealias": true, "typeof": true, "val": true,
	"var": true, "when": true, "while": true,
}

// Identifier escapes name with backticks when it is a Kotlin hard keyword.
func Identifier(name string) string {
	if hardKeywords[name] {
		return "`" + name + "`"
	}
	return name
}

func checkNames(namespace string, root decl.Ref, helpers []codegen.Helper) error {
	if err := checkQualified(namespace, root.Qualified); err != nil {
		return err
	}
	if err := checkQualified(root.Qualified, root.Qualified); err != nil {
		return err
	}
	for _, h := range helpers {
		for _, name := range []string{h.Parent.Qualified, h.Variant.Qualified, h.Accessor} {
			if err := checkQualified(name, h.Variant.Qualified); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkQualified reports an error unless every dotted segment of name is a
// Kotlin identifier.
func checkQualified(name, of string) error {
	for _, segment := range strings.Split(name, ".") {
		if !isIdentifier(segment) {
			return errors.WithHint(
				errors.Newf("%q is not a Kotlin name (in %s)", name, of),
				"the kotlin target needs Kotlin declarations, e.g. from a manifest",
			)
		}
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// QualifiedName escapes every segment of a dotted name.
func QualifiedName(qualified string) string {
	parts := strings.Split(qualified, ".")
	for i, p := range parts {
		parts[i] = Identifier(p)
	}
	return strings.Join(parts, ".")
}
