// Package watch re-runs a callback when a file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/queryhelper/internal/debug"
)

// DefaultDebounce is the quiet period after the last write before the
// callback runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a single file for changes
type Watcher struct {
	file     string
	debounce time.Duration
	callback func() error
	onError  func(error)
	watcher  *fsnotify.Watcher
}

// NewWatcher watches file and calls callback after each change. Errors
// returned by callback go to onError and do not stop the watcher; a nil
// onError logs them.
func NewWatcher(file string, callback func() error, onError func(error)) (*Watcher, error) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	if onError == nil {
		onError = func(err error) {
			debug.Warn("watch callback failed", "file", absPath, "error", err)
		}
	}

	return &Watcher{
		file:     absPath,
		debounce: DefaultDebounce,
		callback: callback,
		onError:  onError,
		watcher:  watcher,
	}, nil
}

// SetDebounce changes the quiet period. It must be called before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run calls the callback once, then again after every change until ctx is
// done. The initial call's error is returned and stops the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.callback(); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			debug.Debug("file changed", "file", w.file, "op", event.Op.String())
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.callback(); err != nil {
				w.onError(err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			debug.Warn("watch error", "file", w.file, "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	path, err := filepath.Abs(event.Name)
	return err == nil && path == w.file
}
