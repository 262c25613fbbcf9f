package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_UnionMinusSorted(t *testing.T) {
	auto := New("main", "cli", "version")
	user := New("Helper")
	include := New("cli")

	all := auto.Union(user).Minus(include)
	require.Equal(t, []string{"Helper", "main", "version"}, all.Sorted())
	require.True(t, auto.Has("cli"), "operands must not be mutated")
}

func TestSet_NilIsEmpty(t *testing.T) {
	var s Set[string]
	require.False(t, s.Has("x"))
	require.Empty(t, s.Sorted())
	require.Equal(t, []string{"a"}, s.Union(New("a")).Sorted())
}
