package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fredon/internal/config"
	"fredon/internal/icons"
	"fredon/internal/launch"
	"fredon/pkg/logging"
)

const defaultEventBuffer = 64

// Options configures a new Engine. The zero value of every field selects a
// sensible default.
type Options struct {
	// ConfigPath is the configuration file to load and watch. Empty selects
	// the user-scoped default path.
	ConfigPath string
	// CacheDir is the persistent icon cache directory. Empty selects the
	// user cache directory; the engine degrades to memory-only caching if
	// the directory cannot be created.
	CacheDir string
	// CacheBudget caps the in-memory icon tier in bytes.
	CacheBudget int64
	// Debounce coalesces rapid configuration writes.
	Debounce time.Duration
	// Policy overrides the default command whitelist policy.
	Policy *launch.Policy
	// EventBuffer sizes the outbound notification channel.
	EventBuffer int
}

// Engine is the launch engine façade consumed by the UI shell. It owns the
// configuration store and watcher, the command validator and executor, and
// the icon cache, and surfaces outbound notifications on Events.
type Engine struct {
	store    *config.Store
	watcher  *config.Watcher
	policy   *launch.Policy
	executor *launch.Executor
	icons    *icons.Cache
	events   chan Event
}

// New assembles an engine from options. Call Start to begin watching.
func New(opts Options) (*Engine, error) {
	path := opts.ConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		if d, err := icons.DefaultDiskCacheDir(); err == nil {
			cacheDir = d
		}
	}
	var disk *icons.DiskCache
	if cacheDir != "" {
		var err error
		disk, err = icons.OpenDiskCache(cacheDir)
		if err != nil {
			logging.Warn("Engine", "Persistent icon cache unavailable, running memory-only: %v", err)
			disk = nil
		}
	}

	policy := opts.Policy
	if policy == nil {
		policy = launch.DefaultPolicy()
	}

	bufSize := opts.EventBuffer
	if bufSize <= 0 {
		bufSize = defaultEventBuffer
	}

	e := &Engine{
		store:    config.NewStore(nil),
		policy:   policy,
		executor: launch.NewExecutor(),
		icons:    icons.New(opts.CacheBudget, disk),
		events:   make(chan Event, bufSize),
	}
	e.watcher = config.NewWatcher(path, e.store, opts.Debounce)
	e.watcher.OnApplied = func(cfg *config.Config, warnings config.ValidationErrors) {
		e.emit(Event{Type: EventConfigReloaded, Config: cfg, Findings: warnings})
	}
	e.watcher.OnFailed = func(errs config.ValidationErrors, err error) {
		e.emit(Event{Type: EventConfigReloadFailed, Findings: errs, Err: err})
	}
	return e, nil
}

// Start loads the configuration and begins watching it, and starts the
// periodic disk cache sweep. It returns once the initial snapshot is
// active.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.watcher.Start(ctx); err != nil {
		return fmt.Errorf("starting configuration watcher: %w", err)
	}
	e.icons.StartSweeper(ctx, 0)
	return nil
}

// Stop shuts the watcher down. The events channel is left open because
// in-flight launches may still report results.
func (e *Engine) Stop() {
	e.watcher.Stop()
}

// Config returns the currently active configuration snapshot.
func (e *Engine) Config() *config.Config {
	return e.store.Get()
}

// Events returns the outbound notification channel.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Activate validates and launches the identified launchable. It returns the
// launch ID immediately; the spawn and supervision run on their own
// goroutine and report through launch-started/launch-result events, so
// activation never blocks configuration reloads or icon lookups.
//
// Security errors are returned to the caller and never silently recovered:
// a blocked command is never executed.
func (e *Engine) Activate(ctx context.Context, launchableID string) (uuid.UUID, error) {
	snapshot := e.store.Get()
	l, ok := snapshot.LaunchableByID(launchableID)
	if !ok {
		return uuid.Nil, fmt.Errorf("launchable %q not found", launchableID)
	}
	if !l.Enabled {
		return uuid.Nil, fmt.Errorf("launchable %q is disabled", launchableID)
	}

	argv, err := e.policy.ValidateCommand(l.Command, l.Kind, l.WorkingDir)
	if err != nil {
		logging.Warn("Engine", "Blocked activation of %q: %v", launchableID, err)
		return uuid.Nil, err
	}

	req := launch.NewRequest(l)
	e.emit(Event{Type: EventLaunchStarted, LaunchID: req.ID, LaunchableID: launchableID})
	logging.Info("Engine", "Launching %q (%s)", launchableID, req.ID)

	// The launch outlives the activation call; only the executor's own
	// deadline cancels it.
	go func() {
		res := e.executor.Execute(context.WithoutCancel(ctx), req, argv)
		e.emit(Event{Type: EventLaunchResult, LaunchID: req.ID, LaunchableID: launchableID, Result: &res})
	}()
	return req.ID, nil
}

// RequestIcon returns the icon for ref at the given size. It never fails;
// unresolvable references yield the synthesized placeholder.
func (e *Engine) RequestIcon(ref string, size int) icons.Image {
	return e.icons.Get(ref, size)
}

// RequestReload re-reads the configuration file immediately, bypassing the
// debounce window.
func (e *Engine) RequestReload() {
	e.watcher.Reload()
}

// IconStats exposes icon cache accounting for diagnostics.
func (e *Engine) IconStats() icons.Stats {
	return e.icons.Stats()
}
