// Package watch rebuilds the docs when Python sources in the package change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rich-iannone/great-docs/internal/logfields"
	"github.com/rich-iannone/great-docs/internal/util/sets"
)

// DefaultDebounce collapses bursts of editor writes into one rebuild.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc receives the sorted set of changed .py paths of one burst.
type ChangeFunc func(ctx context.Context, changed []string)

// Watcher watches a package directory tree.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange ChangeFunc
	fsw      *fsnotify.Watcher
}

// New registers every directory under root. Run must be called to consume events.
func New(root string, debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{root: absRoot, debounce: debounce, onChange: onChange, fsw: fsw}
	if err := w.addDirsRecursive(absRoot); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is cancelled, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Warn("closing file watcher", logfields.Error(err))
		}
	}()
	slog.Info("Watching package sources", logfields.Path(w.root))

	var timer *time.Timer
	var fire <-chan time.Time
	pending := sets.New[string]()

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.handle(ev) {
				continue
			}
			pending.Add(ev.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			changed := pending.Sorted()
			pending = sets.New[string]()
			slog.Info("Change detected; rebuilding", logfields.Count(len(changed)))
			w.onChange(ctx, changed)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// handle reports whether ev should trigger a rebuild. New directories are
// added to the watch set.
func (w *Watcher) handle(ev fsnotify.Event) bool {
	if ignored(ev.Name) {
		return false
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
			return false
		}
	}
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if filepath.Ext(ev.Name) != ".py" {
		return false
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
	return true
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func ignored(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."), base == "__pycache__":
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"):
		return true
	}
	return false
}
