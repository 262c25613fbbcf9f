package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClass_QualifiesMethodsInOrder(t *testing.T) {
	g := NewClass("Graph", "pkg.graph", "add_node", "add_edge")

	require.True(t, g.IsClass())
	require.Equal(t, 2, g.MethodCount())
	require.Equal(t, "Graph.add_node", g.Methods[0].QualifiedName)
	require.Equal(t, "Graph.add_edge", g.Methods[1].QualifiedName)
	require.Equal(t, "Graph (class, 2 methods)", g.String())
}

func TestCatalog_ValidateRejectsDuplicates(t *testing.T) {
	c := Catalog{
		{QualifiedName: "load", Kind: KindFunction},
		{QualifiedName: "load", Kind: KindOther},
	}
	require.ErrorContains(t, c.Validate(), `duplicate catalog entry "load"`)
	require.NoError(t, c[:1].Validate())
}

func TestCatalog_CountsAndLookup(t *testing.T) {
	c := Catalog{
		NewClass("Point", "pkg"),
		{QualifiedName: "distance", Kind: KindFunction},
		{QualifiedName: "ORIGIN", Kind: KindOther},
	}
	require.Equal(t, map[Kind]int{KindClass: 1, KindFunction: 1, KindOther: 1}, c.Counts())

	obj, ok := c.Lookup("distance")
	require.True(t, ok)
	require.Equal(t, "function", obj.Kind.String())
	_, ok = c.Lookup("missing")
	require.False(t, ok)
}
