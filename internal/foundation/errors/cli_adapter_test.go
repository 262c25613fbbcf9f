package errors

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, quietLogger())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"discovery", DiscoveryError("package not found").Build(), 3},
		{"config format", ConfigFormatError("not a mapping").Build(), 4},
		{"empty catalog warning", EmptyCatalogWarning("nothing found").Build(), 0},
		{"render", RenderError("quarto render failed").Build(), 12},
		{"wrapped discovery", wrap(DiscoveryError("x").Build()), 3},
		{"unclassified", errors.New("unknown error"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, quietLogger())
	loud := NewCLIErrorAdapter(true, quietLogger())

	err := DiscoveryError("could not locate package").
		WithContext("package", "gt").
		WithCause(errors.New("stat gt: no such file")).
		Build()

	require.Equal(t, "Error: could not locate package", quiet.FormatError(err))
	require.Contains(t, loud.FormatError(err), "no such file")
	require.Equal(t, "Internal error occurred (use -v for details)", quiet.FormatError(InternalError("boom").Build()))
	require.Equal(t, "Warning: nothing found", quiet.FormatError(EmptyCatalogWarning("nothing found").Build()))
	require.Equal(t, "Error: plain", quiet.FormatError(errors.New("plain")))
	require.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, quietLogger()).WithOutput(&out)

	code := adapter.Report(ConfigFormatError("_quarto.yml is not a mapping").Build())
	require.Equal(t, 4, code)
	require.Equal(t, "Error: _quarto.yml is not a mapping\n", out.String())
	require.Equal(t, 0, adapter.Report(nil))
}

func wrap(err error) error {
	return &wrapper{err: err}
}

type wrapper struct{ err error }

func (w *wrapper) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapper) Unwrap() error { return w.err }
