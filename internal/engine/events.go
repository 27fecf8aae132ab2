package engine

import (
	"github.com/google/uuid"

	"fredon/internal/config"
	"fredon/internal/launch"
	"fredon/pkg/logging"
)

// EventType identifies an outbound notification to the UI shell.
type EventType string

const (
	// EventConfigReloaded reports that a new configuration snapshot was
	// swapped in; the UI typically shows a "configuration reloaded" notice.
	EventConfigReloaded EventType = "config-reloaded"
	// EventConfigReloadFailed reports that a detected change could not be
	// applied; the previous snapshot remains active.
	EventConfigReloadFailed EventType = "config-reload-failed"
	// EventLaunchStarted reports that a launchable was activated and its
	// process is being spawned.
	EventLaunchStarted EventType = "launch-started"
	// EventLaunchResult carries the terminal result of a launch.
	EventLaunchResult EventType = "launch-result"
)

// Event is a single outbound notification. Only the fields relevant to the
// Type are populated.
type Event struct {
	Type EventType

	// Config is the newly active snapshot (config-reloaded).
	Config *config.Config
	// Findings carries validation findings: warnings on a successful
	// reload, the full error list on a failed one.
	Findings config.ValidationErrors
	// Err is the read error behind a failed reload, if any.
	Err error

	// LaunchID correlates launch-started with its launch-result.
	LaunchID uuid.UUID
	// LaunchableID names the activated entry.
	LaunchableID string
	// Result is the terminal launch outcome (launch-result).
	Result *launch.Result
}

// emit delivers an event without ever blocking engine internals. A UI that
// stops draining misses notifications rather than wedging reloads or
// launches.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		logging.Warn("Engine", "Event channel full, dropping %s notification", ev.Type)
	}
}
