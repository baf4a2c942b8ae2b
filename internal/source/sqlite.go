package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports writes to a sqlite database file as run changes.
// Filesystem events are per write rather than per row, so bursts belonging to
// one transaction are coalesced.
type FileWatcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// NewFileWatcher watches the database at path. If logger is nil, a discard logger is used.
func NewFileWatcher(path string, logger *slog.Logger) *FileWatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileWatcher{path: path, debounce: 100 * time.Millisecond, logger: logger}
}

// Listen blocks until ctx is cancelled. In-memory databases never change
// underneath the server, so for them Listen only waits.
func (w *FileWatcher) Listen(ctx context.Context, onReady, onChange func()) error {
	if w.path == "" || w.path == ":memory:" {
		onReady()
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	onReady()

	base := filepath.Base(w.path)
	names := map[string]bool{base: true, base + "-wal": true, base + "-journal": true}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !names[filepath.Base(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				w.logger.DebugContext(ctx, "database file changed", "file", event.Name)
				onChange()
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.ErrorContext(ctx, "watcher error", "error", err)
		}
	}
}
