package launch

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"fredon/internal/config"
)

// State tracks a launch request through its lifecycle:
//
//	Pending -> Spawned -> Running -> Completed | TimedOut | Killed
//	                   -> SpawnFailed
type State string

const (
	StatePending     State = "pending"
	StateSpawned     State = "spawned"
	StateRunning     State = "running"
	StateCompleted   State = "completed"
	StateTimedOut    State = "timed-out"
	StateKilled      State = "killed"
	StateSpawnFailed State = "spawn-failed"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateTimedOut, StateKilled, StateSpawnFailed:
		return true
	}
	return false
}

// Request describes a single launch. Command and Kind come from a validated
// Launchable; the argument vector is produced by the Policy before spawn.
type Request struct {
	ID         uuid.UUID
	Command    string
	Kind       config.ExecutionKind
	WorkingDir string

	// Timeout overrides the executor default when positive.
	Timeout time.Duration

	// Detach launches the process fire-and-forget: after the spawn grace
	// window the request completes successfully and the process keeps
	// running unsupervised. Used for graphical applications.
	Detach bool
}

// NewRequest builds a Request for a validated launchable.
func NewRequest(l config.Launchable) Request {
	return Request{
		ID:         uuid.New(),
		Command:    l.Command,
		Kind:       l.Kind,
		WorkingDir: l.WorkingDir,
		Detach:     l.Kind == config.KindDirect,
	}
}

// Result reports the outcome of a launch. Every failure mode is encoded
// here; Execute never panics and never returns a bare error.
type Result struct {
	ID       uuid.UUID
	State    State
	ExitCode int
	// Output holds captured stdout/stderr, truncated to the executor's
	// capture limit. Diagnostic only.
	Output  string
	Elapsed time.Duration
	Err     error
}

// Success reports whether the launch is considered successful.
func (r Result) Success() bool {
	return r.State == StateCompleted && r.ExitCode == 0
}

// SecurityError reports a command blocked by the validator, carrying the
// violated rule and the offending substring. A blocked command is never
// executed and the error is always surfaced to the user.
type SecurityError struct {
	Rule      string
	Offending string
}

func (e *SecurityError) Error() string {
	if e.Offending == "" {
		return fmt.Sprintf("command blocked by rule %q", e.Rule)
	}
	return fmt.Sprintf("command blocked by rule %q: %q", e.Rule, e.Offending)
}

// Rule names carried by SecurityError for user-facing diagnostics.
const (
	RuleEmptyCommand        = "empty-command"
	RuleBlockedCharacter    = "blocked-character"
	RuleBlockedCommand      = "blocked-command"
	RuleUnknownKind         = "unknown-kind"
	RuleWrapperNotAllowed   = "wrapper-not-allowed"
	RuleScriptNotFound      = "script-not-found"
	RuleScriptExtension     = "script-extension"
	RuleManifestMissing     = "manifest-missing"
	RuleScriptNotInManifest = "script-not-in-manifest"
)
