package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/errors"
)

// names renders pairs as "Variant<-Parent" for compact assertions.
func names(pairs []Pair) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.Variant.Ref().Name + "<-" + p.Parent.Ref().Name
	}
	return out
}

func TestWalkFlat(t *testing.T) {
	root := decl.NewUnion("app.MainScreenState",
		decl.NewCase("app.MainScreenState.Loading"),
		decl.NewCase("app.MainScreenState.Loaded"),
		decl.NewCase("app.MainScreenState.Error"),
		decl.NewCase("app.MainScreenState.Empty"),
	)

	pairs, err := Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Loading<-MainScreenState",
		"Loaded<-MainScreenState",
		"Error<-MainScreenState",
		"Empty<-MainScreenState",
	}, names(pairs))
}

func TestWalkNoVariants(t *testing.T) {
	pairs, err := Walk(decl.NewUnion("app.Empty"))
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestWalkNestedReceivers(t *testing.T) {
	// Root { Level1 { Level2 } }
	level2 := decl.NewCase("app.Root.Level1.Level2")
	level1 := decl.NewUnion("app.Root.Level1", level2)
	root := decl.NewUnion("app.Root", level1)

	pairs, err := Walk(root)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Same(t, level1, pairs[0].Variant)
	assert.Same(t, root, pairs[0].Parent)

	assert.Same(t, level2, pairs[1].Variant)
	assert.Same(t, level1, pairs[1].Parent, "nested helper must be scoped to its immediate parent")
}

func TestWalkArbitraryDepth(t *testing.T) {
	root := decl.NewUnion("app.A",
		decl.NewUnion("app.A.B",
			decl.NewUnion("app.A.B.C",
				decl.NewUnion("app.A.B.C.D",
					decl.NewCase("app.A.B.C.D.E"),
				),
				decl.NewCase("app.A.B.C.F"),
			),
		),
		decl.NewCase("app.A.G"),
	)

	pairs, err := Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"B<-A", "C<-B", "D<-C", "E<-D", "F<-C", "G<-A"}, names(pairs))
}

func TestWalkEmptySubUnion(t *testing.T) {
	root := decl.NewUnion("app.State",
		decl.NewUnion("app.State.Nested"),
		decl.NewCase("app.State.Idle"),
	)

	pairs, err := Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nested<-State", "Idle<-State"}, names(pairs))
}

func TestWalkVisitsEachVariantOnce(t *testing.T) {
	root := decl.NewUnion("app.State",
		decl.NewUnion("app.State.X", decl.NewCase("app.State.X.One"), decl.NewCase("app.State.X.Two")),
		decl.NewUnion("app.State.Y", decl.NewCase("app.State.Y.Three")),
	)

	pairs, err := Walk(root)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, p := range pairs {
		seen[p.Variant.Ref().Qualified]++
	}
	assert.Len(t, seen, 5)
	for name, n := range seen {
		assert.Equal(t, 1, n, name)
	}
}

func TestWalkUnresolved(t *testing.T) {
	nested := decl.NewUnion("app.State.Nested")
	nested.Unresolved = true
	root := decl.NewUnion("app.State", decl.NewCase("app.State.Idle"), nested)

	pairs, err := Walk(root)
	require.Error(t, err)
	assert.Nil(t, pairs)
	assert.True(t, errors.IsUnresolved(err))
	assert.Contains(t, err.Error(), "app.State.Nested")
}
