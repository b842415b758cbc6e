// Package golang renders Go helpers for sealed interface hierarchies.
//
// Go has no extension functions, so every union in a hierarchy gets a small
// scope type wrapping a value of that union. Guarded helpers are methods on
// the scope of their parent union:
//
//	extensions.Invoke(state, func(s extensions.DemoScreenState) {
//		s.Loading(func(demoscreen.Loading) { ... }).
//			Error(func(e demoscreen.Error) { ... })
//	})
//
// The output is only parsed to validate it, never reformatted.
package golang

import (
	"fmt"
	"go/format"
	"go/token"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/uistate/codegen"
	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/naming"
)

// Header marks generated files so tools and reviewers skip them.
const Header = "// Code generated by uistate. DO NOT EDIT."

// PackageName is the package clause of every generated file.
const PackageName = "extensions"

// EntryPoint is the name of the unconditional helper.
const EntryPoint = "Invoke"

// identifiers used inside generated function bodies; import aliases must not shadow them
var locals = map[string]bool{"s": true, "c": true, "ok": true, "body": true, "v": true}

// Generator implements codegen.Generator for Go
type Generator struct{}

// NewGenerator creates a new Go generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "go"
func (g *Generator) Language() string {
	return "go"
}

// FileExtension returns "go"
func (g *Generator) FileExtension() string {
	return "go"
}

// Namespace returns the import path of the generated package.
func (g *Generator) Namespace(root decl.Ref) string {
	return path.Join(root.Namespace, naming.PackageSegment(root.Name), PackageName)
}

// Dir places the generated package below the root's own package directory
// when it is known, and otherwise mirrors the import path.
func (g *Generator) Dir(root decl.Ref) string {
	if root.Dir != "" {
		return filepath.Join(root.Dir, naming.PackageSegment(root.Name), PackageName)
	}
	return filepath.FromSlash(g.Namespace(root))
}

// Render produces the generated file for root.
func (g *Generator) Render(root decl.Ref, helpers []codegen.Helper) (string, error) {
	imports, err := newImportSet(root, helpers)
	if err != nil {
		return "", err
	}

	scopes := map[string]string{root.Qualified: naming.Exported(root.Name)}
	for _, h := range helpers {
		if h.VariantIsUnion {
			scopes[h.Variant.Qualified] = naming.Exported(h.Variant.Name)
		}
	}
	if err := checkScopes(scopes); err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString(Header + "\n")
	sb.WriteString("\n")
	sb.WriteString("package " + PackageName + "\n")
	sb.WriteString("\n")
	imports.write(&sb)

	rootScope := scopes[root.Qualified]
	rootType := imports.typeExpr(root)
	writeScope(&sb, rootScope, rootType)

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("// %s runs body with v in scope.\n", EntryPoint))
	sb.WriteString(fmt.Sprintf("func %s(v %s, body func(%s)) {\n", EntryPoint, rootType, rootScope))
	sb.WriteString(fmt.Sprintf("\tbody(%s{value: v})\n", rootScope))
	sb.WriteString("}\n")

	methods := make(map[string]bool, len(helpers))
	for _, h := range helpers {
		receiver, ok := scopes[h.Parent.Qualified]
		if !ok {
			return "", errors.Newf("no scope for receiver %s of %s", h.Parent.Qualified, h.Variant.Qualified)
		}
		method := naming.Exported(h.Accessor)
		if !token.IsIdentifier(method) {
			return "", errors.Newf("%s is not a valid Go identifier for %s", method, h.Variant.Qualified)
		}
		key := receiver + "." + method
		if methods[key] {
			return "", errors.Wrapf(errors.ErrDuplicateAccessor, "method %s", key)
		}
		methods[key] = true

		variantType := imports.typeExpr(h.Variant)

		if h.VariantIsUnion {
			writeScope(&sb, scopes[h.Variant.Qualified], variantType)
		}

		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("// %s runs body when the value is a %s.\n", method, variantType))
		if h.VariantIsUnion {
			scope := scopes[h.Variant.Qualified]
			sb.WriteString(fmt.Sprintf("func (s %s) %s(body func(%s)) %s {\n", receiver, method, scope, receiver))
			sb.WriteString(fmt.Sprintf("\tif c, ok := s.value.(%s); ok {\n", variantType))
			sb.WriteString(fmt.Sprintf("\t\tbody(%s{value: c})\n", scope))
		} else {
			sb.WriteString(fmt.Sprintf("func (s %s) %s(body func(%s)) %s {\n", receiver, method, variantType, receiver))
			sb.WriteString(fmt.Sprintf("\tif c, ok := s.value.(%s); ok {\n", variantType))
			sb.WriteString("\t\tbody(c)\n")
		}
		sb.WriteString("\t}\n")
		sb.WriteString("\treturn s\n")
		sb.WriteString("}\n")
	}

	content := sb.String()
	if _, err := format.Source([]byte(content)); err != nil {
		return "", errors.Wrapf(err, "generated code for %s does not parse", root.Qualified)
	}
	return content, nil
}

func writeScope(sb *strings.Builder, scope, typeExpr string) {
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("// %s scopes helpers to a %s value.\n", scope, typeExpr))
	sb.WriteString(fmt.Sprintf("type %s struct {\n", scope))
	sb.WriteString(fmt.Sprintf("\tvalue %s\n", typeExpr))
	sb.WriteString("}\n")
}

// checkScopes rejects hierarchies whose unions cannot all get a distinct
// scope type.
func checkScopes(scopes map[string]string) error {
	owners := make(map[string]string, len(scopes))
	qualified := make([]string, 0, len(scopes))
	for q := range scopes {
		qualified = append(qualified, q)
	}
	sort.Strings(qualified)

	for _, q := range qualified {
		name := scopes[q]
		if !token.IsIdentifier(name) || name == EntryPoint {
			return errors.Newf("union %s cannot be scoped as %q", q, name)
		}
		if other, dup := owners[name]; dup {
			return errors.Newf("unions %s and %s both scope as %s", other, q, name)
		}
		owners[name] = q
	}
	return nil
}

// importSet assigns one alias per imported package.
type importSet struct {
	paths   []string
	aliases map[string]string // import path -> alias
}

func newImportSet(root decl.Ref, helpers []codegen.Helper) (*importSet, error) {
	refs := []decl.Ref{root}
	for _, h := range helpers {
		refs = append(refs, h.Variant, h.Parent)
	}

	names := make(map[string]string)
	for _, r := range refs {
		if _, seen := names[r.Namespace]; seen {
			continue
		}
		name := r.PackageName
		if name == "" {
			name = path.Base(r.Namespace)
		}
		if r.Namespace == "" || !token.IsIdentifier(name) {
			return nil, errors.Newf("cannot import package %q of %s", r.Namespace, r.Qualified)
		}
		names[r.Namespace] = name
	}

	s := &importSet{aliases: make(map[string]string, len(names))}
	for p := range names {
		s.paths = append(s.paths, p)
	}
	sort.Strings(s.paths)

	used := make(map[string]bool, len(s.paths))
	for _, p := range s.paths {
		alias := names[p]
		if locals[alias] || token.IsKeyword(alias) || naming.IsExported(alias) {
			alias += "pkg"
		}
		base := alias
		for i := 2; used[alias]; i++ {
			alias = base + strconv.Itoa(i)
		}
		used[alias] = true
		s.aliases[p] = alias
	}
	return s, nil
}

func (s *importSet) write(sb *strings.Builder) {
	if len(s.paths) == 1 {
		p := s.paths[0]
		sb.WriteString(fmt.Sprintf("import %s %s\n", s.aliases[p], strconv.Quote(p)))
		return
	}
	sb.WriteString("import (\n")
	for _, p := range s.paths {
		sb.WriteString(fmt.Sprintf("\t%s %s\n", s.aliases[p], strconv.Quote(p)))
	}
	sb.WriteString(")\n")
}

func (s *importSet) typeExpr(r decl.Ref) string {
	expr := s.aliases[r.Namespace] + "." + r.Name
	if r.Pointer {
		return "*" + expr
	}
	return expr
}
