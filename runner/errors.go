package runner

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/kbukum/yake/errors"
)

// ExecutionError reports an exec line that did not succeed.
type ExecutionError struct {
	Target string
	// Step is the zero-based index of the failing exec line.
	Step    int
	Command string
	// ExitCode is the subprocess exit code, -1 when it was killed or never started.
	ExitCode int
	Cause    error
}

func (e *ExecutionError) Error() string {
	if e.TimedOut() {
		return fmt.Sprintf("target %q: step %d %q timed out", e.Target, e.Step+1, e.Command)
	}
	return fmt.Sprintf("target %q: step %d %q failed with exit code %d", e.Target, e.Step+1, e.Command, e.ExitCode)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// TimedOut reports whether the step was stopped by the per-step timeout.
func (e *ExecutionError) TimedOut() bool {
	return stderrors.Is(e.Cause, context.DeadlineExceeded)
}

// ErrorCode implements errors.Coder.
func (e *ExecutionError) ErrorCode() errors.ErrorCode {
	if e.TimedOut() {
		return errors.ErrCodeTimeout
	}
	return errors.ErrCodeExecutionFailed
}

// ExitStatus implements errors.ExitCoder.
func (e *ExecutionError) ExitStatus() int { return e.ExitCode }

// CancelledError reports a run aborted from outside.
type CancelledError struct {
	// Target is the target running or about to run when the abort was seen.
	Target string
	Cause  error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("run cancelled at target %q: %v", e.Target, e.Cause)
}

func (e *CancelledError) Unwrap() error { return e.Cause }

// ErrorCode implements errors.Coder.
func (e *CancelledError) ErrorCode() errors.ErrorCode { return errors.ErrCodeCancelled }
