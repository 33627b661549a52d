package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// DefaultDebounce batches bursts of editor writes into a single callback.
const DefaultDebounce = 150 * time.Millisecond

// ChangeHandler receives the watched paths that changed in one debounce window.
type ChangeHandler func(changed []m.Path)

// ChangeWatcher notifies about changes to a fixed set of files.
type ChangeWatcher interface {
	// Watch blocks until ctx is done, invoking fn from a single goroutine.
	Watch(ctx context.Context, paths []m.Path, fn ChangeHandler) error
}

// FSNotifyWatcher is a ChangeWatcher backed by fsnotify.
//
// Parent directories are watched instead of the files themselves because
// editors commonly replace files through rename, which drops file watches.
type FSNotifyWatcher struct {
	debounce time.Duration
}

// NewFSNotifyWatcher constructs a watcher; debounce <= 0 selects DefaultDebounce.
func NewFSNotifyWatcher(debounce time.Duration) *FSNotifyWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &FSNotifyWatcher{debounce: debounce}
}

// Watch implements ChangeWatcher.
func (w *FSNotifyWatcher) Watch(ctx context.Context, paths []m.Path, fn ChangeHandler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() {
		if err := watcher.Close(); err != nil {
			slog.Error("failed to close watcher", "error", err)
		}
	}()

	targets := make(map[string]m.Path, len(paths))
	dirs := make(map[string]struct{})

	for _, p := range paths {
		abs, err := filepath.Abs(string(p))
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}

		targets[abs] = p
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	pending := make(map[m.Path]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			original, tracked := targets[filepath.Clean(event.Name)]
			if !tracked || event.Op == fsnotify.Chmod {
				continue
			}

			slog.Debug("watched file changed", "path", event.Name, "op", event.Op.String())
			pending[original] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Warn("watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			changed := make([]m.Path, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}

			sort.Slice(changed, func(i, j int) bool { return changed[i] < changed[j] })
			pending = make(map[m.Path]struct{})

			fn(changed)
		}
	}
}
