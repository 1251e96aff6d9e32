// Package watch reports changes to the saved session files.
package watch

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher monitors the state directory and reports changed keys once they
// have been quiet for the debounce period.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	path      string
	keyFor    func(path string) string
	callback  func(keys []string)
	log       zerolog.Logger
	mu        sync.Mutex
	pending   map[string]time.Time
}

// NewWatcher creates a watcher on dir. keyFor maps a file path to a store
// key and returns "" for files that should be ignored.
func NewWatcher(dir string, debounce time.Duration, keyFor func(string) string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		debounce:  debounce,
		path:      dir,
		keyFor:    keyFor,
		log:       zerolog.Nop(),
		pending:   make(map[string]time.Time),
	}, nil
}

// SetCallback sets the function called with the keys that changed.
func (w *Watcher) SetCallback(cb func(keys []string)) {
	w.callback = cb
}

// SetLogger sets the diagnostic logger.
func (w *Watcher) SetLogger(l zerolog.Logger) {
	w.log = l
}

// Start watches until ctx is cancelled or the watcher is stopped.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsWatcher.Add(w.path); err != nil {
		return err
	}
	w.log.Debug().Str("dir", w.path).Msg("watching state directory")

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

// handleEvent records a change to a known key.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	key := w.keyFor(event.Name)
	if key == "" {
		return
	}

	w.mu.Lock()
	w.pending[key] = time.Now()
	w.mu.Unlock()
}

// processDebounced flushes settled changes until ctx is done.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending reports keys that have been stable for the debounce
// period. One save touches several keys, so they are batched.
func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	settled := true
	for key, lastMod := range w.pending {
		if now.Sub(lastMod) < w.debounce {
			settled = false
			break
		}
		ready = append(ready, key)
	}
	if !settled || len(ready) == 0 {
		w.mu.Unlock()
		return
	}
	for _, key := range ready {
		delete(w.pending, key)
	}
	w.mu.Unlock()

	sort.Strings(ready)
	if w.callback != nil {
		w.callback(ready)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedPaths returns the watched directories.
func (w *Watcher) WatchedPaths() []string {
	return w.fsWatcher.WatchList()
}
