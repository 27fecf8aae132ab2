package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"fredon/pkg/logging"
)

const (
	// DefaultTimeout is the wall-clock limit after which a supervised
	// process is forcibly terminated.
	DefaultTimeout = 30 * time.Second

	// DefaultGracePeriod is how long after spawn the executor watches for
	// an instant nonzero exit (executable missing, immediate crash) before
	// considering the process properly running.
	DefaultGracePeriod = 50 * time.Millisecond

	// DefaultCaptureLimit bounds the diagnostic output captured per launch.
	DefaultCaptureLimit = 8 * 1024
)

// Executor spawns validated argument vectors as detached child processes
// under time and resource constraints. Execute always returns a Result; all
// failure modes are encoded there rather than raised.
type Executor struct {
	Timeout      time.Duration
	GracePeriod  time.Duration
	CaptureLimit int
}

// NewExecutor returns an executor with default constraints.
func NewExecutor() *Executor {
	return &Executor{
		Timeout:      DefaultTimeout,
		GracePeriod:  DefaultGracePeriod,
		CaptureLimit: DefaultCaptureLimit,
	}
}

// Execute spawns argv for the given request and supervises it to a terminal
// state. The process runs in its own process group, detached from any shell,
// with stdin closed and stdout/stderr captured up to the executor's limit.
// Environment variables are inherited from the caller, so display-session
// variables reach graphical applications unchanged.
func (e *Executor) Execute(ctx context.Context, req Request, argv []string) Result {
	start := time.Now()
	result := Result{ID: req.ID, State: StatePending, ExitCode: -1}

	if len(argv) == 0 {
		result.State = StateSpawnFailed
		result.Err = errors.New("empty argument vector")
		return result
	}

	buf := newBoundedBuffer(e.captureLimit())

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = e.resolveWorkingDir(req.WorkingDir)
	cmd.Env = os.Environ()
	cmd.Stdout = buf
	cmd.Stderr = buf
	// New process group: the child survives independent of our controlling
	// terminal and can be killed as a group on timeout.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		result.State = StateSpawnFailed
		result.Err = fmt.Errorf("spawn failed: %w", err)
		result.Elapsed = time.Since(start)
		logging.Warn("Launcher", "Spawn failed for %s: %v", argv[0], err)
		return result
	}
	result.State = StateSpawned

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	// Grace check: a process that dies with a nonzero status within the
	// grace window (e.g. exit 127 from a missing executable behind a
	// wrapper) is an immediate failure, not a successful launch.
	grace := time.NewTimer(e.gracePeriod())
	defer grace.Stop()

	select {
	case <-done:
		result.Elapsed = time.Since(start)
		result.ExitCode = cmd.ProcessState.ExitCode()
		result.Output = buf.String()
		if result.ExitCode != 0 {
			result.State = StateSpawnFailed
			result.Err = fmt.Errorf("process exited immediately with status %d", result.ExitCode)
			logging.Warn("Launcher", "Immediate failure for %s: status %d", argv[0], result.ExitCode)
			return result
		}
		result.State = StateCompleted
		return result

	case <-grace.C:
		result.State = StateRunning
	}

	if req.Detach {
		// Fire-and-forget: the launch is considered successful once it
		// survived the grace window. Reap in the background.
		go func() { <-done }()
		result.State = StateCompleted
		result.ExitCode = 0
		result.Elapsed = time.Since(start)
		logging.Info("Launcher", "Detached %s (pid %d)", argv[0], cmd.Process.Pid)
		return result
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = e.timeout()
	}
	deadline := time.NewTimer(timeout - e.gracePeriod())
	defer deadline.Stop()

	select {
	case waitErr := <-done:
		result.Elapsed = time.Since(start)
		result.ExitCode = cmd.ProcessState.ExitCode()
		result.Output = buf.String()
		if signaled(cmd) {
			result.State = StateKilled
			result.Err = fmt.Errorf("process killed: %v", waitErr)
			return result
		}
		result.State = StateCompleted
		if result.ExitCode != 0 {
			result.Err = fmt.Errorf("process exited with status %d", result.ExitCode)
		}
		return result

	case <-ctx.Done():
		e.killGroup(cmd)
		<-done
		result.Elapsed = time.Since(start)
		result.Output = buf.String()
		result.State = StateKilled
		result.Err = ctx.Err()
		return result

	case <-deadline.C:
		e.killGroup(cmd)
		<-done
		result.Elapsed = time.Since(start)
		result.Output = buf.String()
		result.State = StateTimedOut
		result.Err = fmt.Errorf("process exceeded %s deadline", timeout)
		logging.Warn("Launcher", "Killed %s after %s timeout", argv[0], timeout)
		return result
	}
}

// killGroup forcibly terminates the process and everything it spawned.
func (e *Executor) killGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		// Group kill can fail if the leader already exited; fall back to
		// the single process.
		_ = cmd.Process.Kill()
	}
}

// resolveWorkingDir returns the declared working directory when it exists,
// otherwise the user's home directory.
func (e *Executor) resolveWorkingDir(dir string) string {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		logging.Warn("Launcher", "Working directory %s unusable, falling back to home", dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func signaled(cmd *exec.Cmd) bool {
	ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
	return ok && ws.Signaled()
}

func (e *Executor) timeout() time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}
	return DefaultTimeout
}

func (e *Executor) gracePeriod() time.Duration {
	if e.GracePeriod > 0 {
		return e.GracePeriod
	}
	return DefaultGracePeriod
}

func (e *Executor) captureLimit() int {
	if e.CaptureLimit > 0 {
		return e.CaptureLimit
	}
	return DefaultCaptureLimit
}

// boundedBuffer captures process output up to a fixed limit, discarding the
// rest. Safe for concurrent writes from stdout and stderr pipes.
type boundedBuffer struct {
	mu        sync.Mutex
	buf       []byte
	limit     int
	truncated bool
}

func newBoundedBuffer(limit int) *boundedBuffer {
	return &boundedBuffer{limit: limit}
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	remaining := b.limit - len(b.buf)
	if remaining > 0 {
		if len(p) > remaining {
			b.buf = append(b.buf, p[:remaining]...)
			b.truncated = true
		} else {
			b.buf = append(b.buf, p...)
		}
	} else if len(p) > 0 {
		b.truncated = true
	}
	return len(p), nil
}

func (b *boundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.truncated {
		return string(b.buf) + "\n[output truncated]"
	}
	return string(b.buf)
}
