package golang

import (
	"go/format"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/uistate/codegen"
	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/hierarchy"
)

const demo = "github.com/teranos/uistate/examples/demoscreen"

func demoHierarchy() *decl.Fixture {
	loaded := decl.NewCase(demo + ".Loaded")
	loaded.R.Pointer = true

	return decl.NewUnion(demo+".DemoScreenState",
		decl.NewCase(demo+".Loading"),
		loaded,
		decl.NewCase(demo+".Error"),
		decl.NewUnion(demo+".Nested",
			decl.NewCase(demo+".DeeplyNested"),
		),
	)
}

func render(t *testing.T, root *decl.Fixture) *codegen.Unit {
	t.Helper()
	pairs, err := hierarchy.Walk(root)
	require.NoError(t, err)
	unit, diags, err := codegen.Emit(NewGenerator(), root, pairs)
	require.NoError(t, err)
	require.Empty(t, diags)
	return unit
}

const expectedDemo = `// Code generated by uistate. DO NOT EDIT.

package extensions

import demoscreen "github.com/teranos/uistate/examples/demoscreen"

// DemoScreenState scopes helpers to a demoscreen.DemoScreenState value.
type DemoScreenState struct {
	value demoscreen.DemoScreenState
}

// Invoke runs body with v in scope.
func Invoke(v demoscreen.DemoScreenState, body func(DemoScreenState)) {
	body(DemoScreenState{value: v})
}

// DeeplyNested runs body when the value is a demoscreen.DeeplyNested.
func (s Nested) DeeplyNested(body func(demoscreen.DeeplyNested)) Nested {
	if c, ok := s.value.(demoscreen.DeeplyNested); ok {
		body(c)
	}
	return s
}

// Error runs body when the value is a demoscreen.Error.
func (s DemoScreenState) Error(body func(demoscreen.Error)) DemoScreenState {
	if c, ok := s.value.(demoscreen.Error); ok {
		body(c)
	}
	return s
}

// Loaded runs body when the value is a *demoscreen.Loaded.
func (s DemoScreenState) Loaded(body func(*demoscreen.Loaded)) DemoScreenState {
	if c, ok := s.value.(*demoscreen.Loaded); ok {
		body(c)
	}
	return s
}

// Loading runs body when the value is a demoscreen.Loading.
func (s DemoScreenState) Loading(body func(demoscreen.Loading)) DemoScreenState {
	if c, ok := s.value.(demoscreen.Loading); ok {
		body(c)
	}
	return s
}

// Nested scopes helpers to a demoscreen.Nested value.
type Nested struct {
	value demoscreen.Nested
}

// Nested runs body when the value is a demoscreen.Nested.
func (s DemoScreenState) Nested(body func(Nested)) DemoScreenState {
	if c, ok := s.value.(demoscreen.Nested); ok {
		body(Nested{value: c})
	}
	return s
}
`

func TestRenderDemoHierarchy(t *testing.T) {
	unit := render(t, demoHierarchy())

	assert.Equal(t, expectedDemo, unit.Content)
	assert.Equal(t, "DemoScreenStateExtensions.go", unit.FileName)
	assert.Equal(t, demo+"/demoscreenstate/extensions", unit.Namespace)
	assert.Equal(t, filepath.FromSlash(demo+"/demoscreenstate/extensions"), unit.Dir)
}

func TestRenderIsGofmtStable(t *testing.T) {
	unit := render(t, demoHierarchy())

	formatted, err := format.Source([]byte(unit.Content))
	require.NoError(t, err)
	assert.Equal(t, unit.Content, string(formatted))
}

func TestRenderNoVariants(t *testing.T) {
	unit := render(t, decl.NewUnion("example.com/app/state.Screen"))

	expected := `// Code generated by uistate. DO NOT EDIT.

package extensions

import state "example.com/app/state"

// Screen scopes helpers to a state.Screen value.
type Screen struct {
	value state.Screen
}

// Invoke runs body with v in scope.
func Invoke(v state.Screen, body func(Screen)) {
	body(Screen{value: v})
}
`
	assert.Equal(t, expected, unit.Content)
}

func TestRenderDirFromRoot(t *testing.T) {
	g := NewGenerator()
	root := decl.Ref{
		Namespace:   "example.com/app/state",
		PackageName: "state",
		Name:        "Screen",
		Qualified:   "example.com/app/state.Screen",
		Dir:         filepath.Join("src", "state"),
	}

	assert.Equal(t, filepath.Join("src", "state", "screen", "extensions"), g.Dir(root))
	assert.Equal(t, "example.com/app/state/screen/extensions", g.Namespace(root))
}

func TestRenderOrderIndependent(t *testing.T) {
	first := render(t, demoHierarchy())

	reversed := demoHierarchy()
	for i, j := 0, len(reversed.Variants)-1; i < j; i, j = i+1, j-1 {
		reversed.Variants[i], reversed.Variants[j] = reversed.Variants[j], reversed.Variants[i]
	}

	assert.Equal(t, first.Content, render(t, reversed).Content)
}

func TestRenderImportAliases(t *testing.T) {
	root := decl.NewUnion("example.com/s.Screen",
		decl.NewCase("example.com/other/s.Remote"),
		decl.NewCase("example.com/s.Local"),
	)

	unit := render(t, root)

	assert.Contains(t, unit.Content, "import (\n\tspkg \"example.com/other/s\"\n\tspkg2 \"example.com/s\"\n)\n")
	assert.Contains(t, unit.Content, "func Invoke(v spkg2.Screen, body func(Screen)) {")
	assert.Contains(t, unit.Content, "if c, ok := s.value.(spkg.Remote); ok {")

	_, err := format.Source([]byte(unit.Content))
	assert.NoError(t, err)
}

func TestRenderRejectsEntryPointScope(t *testing.T) {
	root := decl.NewUnion("example.com/state.Screen",
		decl.NewUnion("example.com/state.Invoke"),
	)
	pairs, err := hierarchy.Walk(root)
	require.NoError(t, err)

	_, _, err = codegen.Emit(NewGenerator(), root, pairs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be scoped")
}

func TestRenderRejectsDuplicateScopes(t *testing.T) {
	root := decl.NewUnion("example.com/a.Screen",
		decl.NewUnion("example.com/a.Group"),
		decl.NewUnion("example.com/b.Other",
			decl.NewUnion("example.com/b.Group"),
		),
	)
	pairs, err := hierarchy.Walk(root)
	require.NoError(t, err)

	_, _, err = codegen.Emit(NewGenerator(), root, pairs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both scope as Group")
}

func TestRenderRejectsExportedCollision(t *testing.T) {
	g := NewGenerator()
	root := decl.NewUnion("example.com/state.Screen").Ref()
	helpers := []codegen.Helper{
		{Accessor: "item", Variant: decl.Ref{Namespace: "example.com/state", Name: "Item", Qualified: "example.com/state.Item"}, Parent: root},
		{Accessor: "Item", Variant: decl.Ref{Namespace: "example.com/state", Name: "item", Qualified: "example.com/state.item"}, Parent: root},
	}

	_, err := g.Render(root, helpers)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDuplicateAccessor))
}

func TestRenderRejectsNonImportablePackage(t *testing.T) {
	g := NewGenerator()
	root := decl.Ref{Name: "Screen", Qualified: "Screen"}

	_, err := g.Render(root, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot import package")
}
