// Package config implements the configuration side of the launch engine:
// schema types, accumulating validation, the atomically swappable snapshot
// store and the filesystem watcher driving hot reloads.
//
// # Configuration File
//
// Configuration lives in a single YAML document, by default at
// ~/.config/fredon/config.yaml, capped at 1 MiB. Unknown fields are ignored
// rather than rejected, so newer documents remain loadable by older engines.
//
// # Snapshot Semantics
//
// A Config is immutable once validated. The Store publishes snapshots behind
// an atomic pointer: readers never block and always observe an internally
// consistent document, either the previous snapshot or the next one. The
// Watcher is the only writer; it debounces filesystem events, validates the
// new content and swaps only on success, so a broken edit can never take an
// already-running launcher down.
//
// # Degradation
//
// Validation accumulates findings instead of failing fast. Entry-level
// problems drop only the offending entry or cross-reference; document-level
// problems keep the previous snapshot, or substitute the built-in default
// when no valid snapshot has ever been loaded.
package config
