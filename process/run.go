package process

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// DefaultGracePeriod is used when Command.GracePeriod is zero.
const DefaultGracePeriod = 5 * time.Second

// Run starts cmd in a new process group and waits for it. When ctx ends, the
// group receives SIGTERM and, if still alive after the grace period, SIGKILL.
// A Result is returned whenever the binary was given, even on error.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}

	grace := cmd.GracePeriod
	if grace == 0 {
		grace = DefaultGracePeriod
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // running user commands is the point
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdin = cmd.Stdin

	// exec copies stdout and stderr on separate goroutines; callers may pass
	// the same writer for both.
	var (
		stdout, stderr bytes.Buffer
		mu             sync.Mutex
	)
	c.Stdout = tee(&stdout, cmd.Stdout, &mu)
	c.Stderr = tee(&stderr, cmd.Stderr, &mu)

	// Shells fork; signal the whole group so grandchildren stop too.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var escalate *time.Timer
	c.Cancel = func() error {
		pgid := -c.Process.Pid
		escalate = time.AfterFunc(grace, func() {
			_ = syscall.Kill(pgid, syscall.SIGKILL)
		})
		return syscall.Kill(pgid, syscall.SIGTERM)
	}
	// Backstop for pipes held open by processes that left the group.
	c.WaitDelay = grace + time.Second

	start := time.Now()
	err := c.Run()
	if escalate != nil {
		escalate.Stop()
	}

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		result.Interrupted = true
		return result, fmt.Errorf("process: killed by context: %w", ctx.Err())
	}
	if c.ProcessState == nil {
		return result, fmt.Errorf("process: start %s: %w", cmd.Binary, err)
	}
	return result, fmt.Errorf("process: exit code %d: %w", result.ExitCode, err)
}

func tee(buf *bytes.Buffer, w io.Writer, mu *sync.Mutex) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, &lockedWriter{mu: mu, w: w})
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
