// Package logging provides subsystem-tagged structured logging for the
// launch engine, built on log/slog.
//
// Every log call names the subsystem it originates from (ConfigWatcher,
// IconCache, Launcher, ...) so a host application embedding the engine can
// filter output per component. Initialize once at startup:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//	logging.Info("ConfigWatcher", "watching %s", path)
package logging
