package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/hierarchy"
)

func parents(t *testing.T, root decl.Type) map[string]string {
	t.Helper()
	pairs, err := hierarchy.Walk(root)
	require.NoError(t, err)
	got := make(map[string]string, len(pairs))
	for _, p := range pairs {
		got[p.Variant.Ref().Qualified] = p.Parent.Ref().Qualified
	}
	return got
}

func TestLoadYAML(t *testing.T) {
	set, err := Load(filepath.Join("testdata", "demoscreen.yaml"))
	require.NoError(t, err)

	roots := set.Roots()
	require.Len(t, roots, 1)
	root := roots[0]

	assert.Equal(t, decl.Ref{
		Namespace: "biz.aydin.uistate.demoScreen",
		Name:      "DemoScreenState",
		Qualified: "biz.aydin.uistate.demoScreen.DemoScreenState",
	}, root.Ref())
	assert.True(t, root.IsUnion())
	assert.Equal(t, filepath.Join("testdata", "demoscreen.yaml"), decl.PositionOf(root).File)

	const p = "biz.aydin.uistate.demoScreen.DemoScreenState"
	assert.Equal(t, map[string]string{
		p + ".Loading":             p,
		p + ".Loaded":              p,
		p + ".Error":               p,
		p + ".Nested":              p,
		p + ".Nested.DeeplyNested": p + ".Nested",
	}, parents(t, root))
}

func TestLoadTOMLWithRef(t *testing.T) {
	set, err := Load(filepath.Join("testdata", "demointerface.toml"))
	require.NoError(t, err)

	roots := set.Roots()
	require.Len(t, roots, 1)

	const p = "biz.aydin.uistate.demoInterface"
	got := parents(t, roots[0])
	assert.Equal(t, p+".DemoInterfaceState", got[p+".SharedError"], "ref resolves in the manifest's package")
	assert.Equal(t, p+".DemoInterfaceState.Nested", got[p+".DemoInterfaceState.Nested.DeeplyNested"])
	assert.Len(t, got, 5)

	shared, ok := set.Lookup(p + ".SharedError")
	require.True(t, ok)
	assert.False(t, shared.IsUnion())
}

func TestLoadJSONUnresolvedRef(t *testing.T) {
	set, err := Load(filepath.Join("testdata", "teststate.json"))
	require.NoError(t, err)

	roots := set.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "biz.aydin.uistate.processor.test.NotSealed", roots[0].Ref().Qualified)
	assert.False(t, roots[0].IsUnion())

	_, err = roots[1].DirectVariants()
	require.Error(t, err)
	assert.True(t, errors.IsUnresolved(err))
	assert.Contains(t, err.Error(), "refers to unknown declaration biz.aydin.shared.Remote")
}

func TestLoadAcrossManifests(t *testing.T) {
	set, err := Load(
		filepath.Join("testdata", "teststate.json"),
		filepath.Join("testdata", "shared.yaml"),
	)
	require.NoError(t, err)

	root, ok := set.Lookup("biz.aydin.uistate.processor.test.TestState")
	require.True(t, ok)

	variants, err := root.DirectVariants()
	require.NoError(t, err)
	require.Len(t, variants, 4)
	assert.Equal(t, "biz.aydin.shared.Remote", variants[3].Ref().Qualified)
	assert.Equal(t, "biz.aydin.shared", variants[3].Ref().Namespace)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	tests := []struct {
		ext  string
		data string
	}{
		{".yaml", "package: a\ntypes:\n  - name: S\n    varients: []\n"},
		{".toml", "package = \"a\"\n[[types]]\nname = \"S\"\nvarients = []\n"},
		{".json", `{"package": "a", "types": [{"name": "S", "varients": []}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			_, err := Decode(tt.ext, []byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidManifest))
			assert.Contains(t, errors.FlattenDetails(err), "varients")
		})
	}
}

func TestDecodeValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "unknown kind",
			data: "types:\n  - name: S\n    kind: enum\n",
			want: `S has unknown kind "enum"`,
		},
		{
			name: "variants on a class",
			data: "types:\n  - name: S\n    kind: class\n    variants:\n      - name: A\n",
			want: "S is a class and cannot have variants",
		},
		{
			name: "ref with name",
			data: "types:\n  - name: S\n    kind: sealed_class\n    variants:\n      - ref: A\n        name: B\n",
			want: "ref A must not declare anything else",
		},
		{
			name: "top-level ref",
			data: "types:\n  - ref: A\n",
			want: "top-level entry 0 is a ref",
		},
		{
			name: "unsupported schema",
			data: "schema: \"2.1.0\"\ntypes: []\n",
			want: "schema 2.1.0 is not supported",
		},
		{
			name: "invalid schema",
			data: "schema: \"one\"\n",
			want: `invalid schema version "one"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(".yaml", []byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidManifest))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeDefaults(t *testing.T) {
	f, err := Decode(".yml", []byte("package: a\ntypes:\n  - name: S\n"))
	require.NoError(t, err)
	require.Len(t, f.Types, 1)
	assert.Equal(t, KindClass, f.Types[0].Kind)
	assert.Empty(t, f.Schema)

	f, err = Decode(".yaml", nil)
	require.NoError(t, err, "an empty manifest declares nothing")
	assert.Empty(t, f.Types)
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	_, err := Decode(".xml", []byte("<types/>"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidManifest))
	assert.Equal(t, []string{"use .yaml, .yml, .toml or .json"}, errors.GetAllHints(err))
}

func TestNewSetRejectsDuplicates(t *testing.T) {
	a := &File{Package: "app", Types: []Decl{{Name: "State", Kind: KindSealedClass}}}
	b := &File{Package: "app", Types: []Decl{{Name: "State", Kind: KindSealedInterface}}}

	_, err := NewSet(map[string]*File{"a.yaml": a, "b.yaml": b})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidManifest))
	assert.Contains(t, err.Error(), "app.State declared in both a.yaml and b.yaml")
}

func TestNewSetRejectsCycles(t *testing.T) {
	f := &File{Package: "app", Types: []Decl{
		{Name: "State", Kind: KindSealedClass, Marked: true, Variants: []Decl{
			{Name: "Inner", Kind: KindSealedClass, Variants: []Decl{{Ref: "State"}}},
		}},
	}}

	_, err := NewSet(map[string]*File{"a.yaml": f})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidManifest))
	assert.Contains(t, err.Error(), "contains itself")
}

func TestQualifiedOverride(t *testing.T) {
	f := &File{Package: "app", Types: []Decl{
		{Name: "State", Kind: KindSealedClass, Marked: true, Variants: []Decl{
			{Name: "Loading", Kind: KindObject, Qualified: "app.states.Loading"},
		}},
	}}

	set, err := NewSet(map[string]*File{"a.yaml": f})
	require.NoError(t, err)

	_, ok := set.Lookup("app.states.Loading")
	assert.True(t, ok)
	_, ok = set.Lookup("app.State.Loading")
	assert.False(t, ok)
}

func TestReaderReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"package: app\ntypes:\n  - name: State\n    kind: sealed_class\n    marked: true\n    variants:\n      - ref: Later\n",
	), 0o644))

	r := NewReader(nil, path)
	ctx := context.Background()

	roots, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	_, err = roots[0].DirectVariants()
	require.True(t, errors.IsUnresolved(err))

	require.NoError(t, os.WriteFile(path, []byte(
		"package: app\ntypes:\n  - name: State\n    kind: sealed_class\n    marked: true\n    variants:\n      - ref: Later\n  - name: Later\n    kind: object\n",
	), 0o644))

	fresh, err := r.Reload(ctx, roots)
	require.NoError(t, err)
	require.Len(t, fresh, 1)

	variants, err := fresh[0].DirectVariants()
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "app.Later", variants[0].Ref().Qualified)
}

func TestReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(nil, "missing.yaml").Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
