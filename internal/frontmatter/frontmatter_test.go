package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRead_NoFrontMatter(t *testing.T) {
	input := []byte("# Title\n\nHello\n")
	p, err := Read(input)
	require.NoError(t, err)
	require.False(t, p.HasFrontMatter)
	require.Empty(t, p.Fields)
	require.Equal(t, input, p.Body)

	out, err := p.Bytes()
	require.NoError(t, err)
	require.Equal(t, input, out)
}

func TestRead_SplitsFieldsAndBody(t *testing.T) {
	p, err := Read([]byte("---\ntitle: Home\ntoc: false\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, p.HasFrontMatter)
	require.Equal(t, "Home", p.Fields["title"])
	require.Equal(t, false, p.Fields["toc"])
	require.Equal(t, []byte("# Title\n"), p.Body)
}

func TestRead_CRLF(t *testing.T) {
	p, err := Read([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.Equal(t, "\r\n", p.Newline)
	require.Equal(t, "value", p.Fields["key"])
	require.Equal(t, []byte("# Title\r\n"), p.Body)

	out, err := p.Bytes()
	require.NoError(t, err)
	require.Equal(t, "---\r\nkey: value\r\n---\r\n# Title\r\n", string(out))
}

func TestRead_EmptyBlock(t *testing.T) {
	p, err := Read([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, p.HasFrontMatter)
	require.Empty(t, p.Fields)
	require.Equal(t, []byte("# Title\n"), p.Body)
}

func TestRead_Unclosed(t *testing.T) {
	_, err := Read([]byte("---\nkey: value\n# Title\n"))
	require.True(t, errors.Is(err, ErrUnclosed))
}

func TestSerializeYAML_SortedKeys(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"b": "two", "a": "one", "c": 3}, "\n")
	require.NoError(t, err)
	require.Equal(t, "a: one\nb: two\nc: 3\n", string(out))

	out, err = SerializeYAML(nil, "\n")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestEnsureFrontMatter(t *testing.T) {
	out, changed := EnsureFrontMatter([]byte("# Function reference\n"))
	require.True(t, changed)
	require.Equal(t, "---\n---\n\n# Function reference\n", string(out))

	again, changed := EnsureFrontMatter(out)
	require.False(t, changed)
	require.Equal(t, out, again)
}

func TestFingerprintDetectsEdits(t *testing.T) {
	p := NewPage(map[string]any{"title": "", "toc": false}, "# Hello\n")
	require.False(t, p.Untouched(), "unstamped pages count as user owned")
	require.NoError(t, p.Stamp())
	require.True(t, p.Untouched())

	raw, err := p.Bytes()
	require.NoError(t, err)
	reread, err := Read(raw)
	require.NoError(t, err)
	require.True(t, reread.Untouched())

	reread.Body = append(reread.Body, "edited\n"...)
	require.False(t, reread.Untouched())
}
