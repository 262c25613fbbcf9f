package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfigFormat, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "_quarto.yml").
			Build()

		require.Equal(t, CategoryConfigFormat, err.Category())
		require.Equal(t, SeverityFatal, err.Severity())
		require.Equal(t, "invalid configuration", err.Message())
		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		require.Equal(t, "_quarto.yml", file)
		require.Equal(t, "[config_format:fatal] invalid configuration", err.Error())
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("refresh: %w", DiscoveryError("package not found").Build())

		require.True(t, HasCategory(err, CategoryDiscovery))
		require.Equal(t, CategoryDiscovery, GetCategory(err))
		require.False(t, IsWarning(err))
		require.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))
	})

	t.Run("Warning severity", func(t *testing.T) {
		err := EmptyCatalogWarning("no exports").Build()
		require.True(t, IsWarning(err))
		require.False(t, err.IsFatal())
	})
}

func TestErrorBuilder_WrapKeepsCause(t *testing.T) {
	original := errors.New("yaml: line 3: did not find expected key")
	err := WrapError(original, CategoryConfigFormat, "parse _quarto.yml").
		WithContextMap(ErrorContext{"path": "docs/_quarto.yml"}).
		Build()

	require.ErrorIs(t, err, original)
	require.Same(t, original, err.Cause())
	require.Contains(t, err.Error(), "did not find expected key")

	attrs := err.LogAttrs()
	require.Equal(t, "category", attrs[0].Key)
	require.Equal(t, "path", attrs[1].Key)
	require.Equal(t, "cause", attrs[2].Key)
}

func TestClassifiedError_IsMatchesCategoryAndMessage(t *testing.T) {
	a := DiscoveryError("package not found").WithContext("package", "a").Build()
	b := DiscoveryError("package not found").WithContext("package", "b").Build()
	c := ConfigFormatError("package not found").Build()

	require.ErrorIs(t, a, b)
	require.NotErrorIs(t, a, c)
}

func TestErrorContext_Merge(t *testing.T) {
	var nilCtx ErrorContext
	require.Equal(t, ErrorContext{"a": 1}, nilCtx.Merge(ErrorContext{"a": 1}))

	merged := ErrorContext{"a": 1, "b": 2}.Merge(ErrorContext{"b": 3})
	require.Equal(t, ErrorContext{"a": 1, "b": 3}, merged)
}
