package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"fredon/pkg/logging"
)

const defaultDebounceInterval = 300 * time.Millisecond

// Watcher observes the configuration file for changes, feeds raw content
// through validation and requests atomic swaps on the Store.
//
// Rapid successive writes are debounced so editors that save in multiple
// steps trigger a single reload. Validation failures leave the store
// untouched; if the file disappears the watcher falls back to the built-in
// default configuration and keeps watching for the file to reappear.
type Watcher struct {
	mu sync.Mutex

	path     string
	store    *Store
	debounce time.Duration

	watcher  *fsnotify.Watcher
	timer    *time.Timer
	stopCh   chan struct{}
	running  bool
	hadValid bool

	// OnApplied is called after a snapshot has been swapped into the store.
	// The findings carry non-fatal warnings accumulated during validation.
	OnApplied func(cfg *Config, warnings ValidationErrors)
	// OnFailed is called when a detected change could not be applied.
	OnFailed func(errs ValidationErrors, err error)
}

// NewWatcher creates a watcher for the configuration file at path, applying
// swaps to the given store. A debounce of zero selects the default interval.
func NewWatcher(path string, store *Store, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounceInterval
	}
	return &Watcher{
		path:     path,
		store:    store,
		debounce: debounce,
		stopCh:   make(chan struct{}),
	}
}

// Start performs an initial load and begins watching the configuration
// file's directory for changes. It never blocks the caller beyond the
// initial load.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}

	// Watch the directory rather than the file itself: most editors replace
	// the file via rename, which would silently detach a file-level watch.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		w.mu.Unlock()
		return err
	}

	w.watcher = watcher
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	w.Reload()

	go w.processEvents(ctx)

	logging.Info("ConfigWatcher", "Started watching %s for configuration changes", w.path)
	return nil
}

// processEvents handles filesystem events until the watcher is stopped.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return

		case <-w.stopCh:
			w.cancelPending()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("ConfigWatcher", err, "Filesystem watcher error")
		}
	}
}

// handleFsEvent schedules a debounced reload for events touching the
// configuration file.
func (w *Watcher) handleFsEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Coalesce bursts: each new event resets the pending timer.
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		logging.Debug("ConfigWatcher", "Debounce window elapsed, reloading %s", w.path)
		w.Reload()
	})
}

// Reload reads, validates and applies the configuration file immediately,
// bypassing the debounce window. It is safe to call from any goroutine.
func (w *Watcher) Reload() {
	cfg, errs, err := Load(w.path)

	if err != nil {
		if fe, ok := err.(*FileError); ok && fe.IsNotExist() {
			logging.Warn("ConfigWatcher", "Configuration file %s missing, using built-in defaults", w.path)
			w.apply(DefaultConfig(), nil)
			return
		}
		logging.Error("ConfigWatcher", err, "Failed to read configuration")
		w.fail(nil, err)
		return
	}

	if errs.HasFatal() {
		logging.Error("ConfigWatcher", errs, "Configuration rejected, keeping previous snapshot")
		w.mu.Lock()
		hadValid := w.hadValid
		w.mu.Unlock()
		if !hadValid {
			// Nothing valid to keep, substitute the built-in default so the
			// engine stays usable.
			w.store.Swap(DefaultConfig())
		}
		w.fail(errs, nil)
		return
	}

	w.mu.Lock()
	w.hadValid = true
	w.mu.Unlock()
	w.apply(cfg, errs)
}

func (w *Watcher) apply(cfg *Config, warnings ValidationErrors) {
	w.store.Swap(cfg)
	if w.OnApplied != nil {
		w.OnApplied(cfg, warnings)
	}
}

func (w *Watcher) fail(errs ValidationErrors, err error) {
	if w.OnFailed != nil {
		w.OnFailed(errs, err)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Stop gracefully stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			logging.Error("ConfigWatcher", err, "Error closing filesystem watcher")
		}
		w.watcher = nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	logging.Info("ConfigWatcher", "Stopped configuration watcher")
	return nil
}
