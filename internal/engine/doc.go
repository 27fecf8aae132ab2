// Package engine assembles the launch engine behind a single façade for
// the UI shell: configuration snapshots with hot reload, whitelist-based
// command validation and supervised execution, and the two-tier icon cache.
//
// The shell calls Activate, RequestIcon and RequestReload, and drains one
// output, the Events channel, which carries
// configuration-reloaded, configuration-reload-failed, launch-started and
// launch-result notifications. All engine internals are non-blocking from
// the shell's point of view: launches run on their own goroutines, reloads
// on the watcher's, and a shell that stops draining events loses
// notifications rather than stalling the engine.
package engine
