package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcherDebouncesPythonChanges(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	calls := make(chan []string, 4)
	w, err := New(root, 50*time.Millisecond, func(_ context.Context, changed []string) {
		calls <- changed
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	a := filepath.Join(root, "a.py")
	b := filepath.Join(sub, "b.py")
	require.NoError(t, os.WriteFile(a, []byte("x = 1\n"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("y = 1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o600))

	select {
	case changed := <-calls:
		require.Contains(t, changed, a)
		require.Contains(t, changed, b)
		require.NotContains(t, changed, filepath.Join(root, "notes.txt"))
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild triggered")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcherIgnoresNonPython(t *testing.T) {
	root := t.TempDir()
	calls := make(chan []string, 1)
	w, err := New(root, 20*time.Millisecond, func(_ context.Context, changed []string) {
		calls <- changed
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# x"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "__pycache__"), 0o755))

	select {
	case <-calls:
		t.Fatal("unexpected rebuild")
	case <-time.After(300 * time.Millisecond):
	}
	cancel()
	require.NoError(t, <-done)
}

func TestIgnored(t *testing.T) {
	require.True(t, ignored("/x/.git"))
	require.True(t, ignored("/x/__pycache__"))
	require.True(t, ignored("/x/mod.py~"))
	require.False(t, ignored("/x/mod.py"))
}
