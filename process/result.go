package process

import "time"

// Result is what a finished step leaves behind.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is -1 when the process was signalled or never started.
	ExitCode int
	// Interrupted is set when the context stopped the process.
	Interrupted bool
	Duration    time.Duration
}

// Success reports a zero exit status.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0 && !r.Interrupted
}
