package groups

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a profile when its backing file changes on disk,
// picking up edits made by external tools. Events are debounced so a
// burst of writes triggers a single reload.
type Watcher struct {
	profile  *Profile
	debounce time.Duration
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewWatcher creates a watcher for the profile's backing file.
func NewWatcher(profile *Profile, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &Watcher{profile: profile, debounce: debounce}
}

// Start begins watching. The watch runs until Stop is called or ctx is
// cancelled. The profile's parent directory is watched rather than the
// file itself, so atomic rename-style saves are seen as well.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(w.profile.Path())
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.watcher = watcher
	w.done = make(chan struct{})
	go w.run(ctx)
	return nil
}

// Stop ends the watch. Idempotent.
func (w *Watcher) Stop() {
	if w.watcher == nil {
		return
	}
	_ = w.watcher.Close()
	<-w.done
	w.watcher = nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	target := filepath.Base(w.profile.Path())
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := w.profile.Load(); err != nil {
				w.profile.logger.Warn("profile reload failed", "path", w.profile.Path(), "error", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.profile.logger.Warn("profile watcher error", "error", err)
		}
	}
}
