package runner

import "time"

// Status is the outcome of one target.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusCancelled Status = "cancelled"
)

// StepResult is the outcome of one exec line.
type StepResult struct {
	Command  string        `json:"command"`
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Duration time.Duration `json:"duration"`
}

// Entry is the outcome of one target.
type Entry struct {
	Path     string        `json:"path"`
	Status   Status        `json:"status"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
	// SkippedBecause names the failed or skipped dependency behind a skip.
	SkippedBecause string       `json:"skipped_because,omitempty"`
	Steps          []StepResult `json:"steps,omitempty"`
}

// Report describes a run. Entries are appended in execution order.
type Report struct {
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Entries  []Entry       `json:"entries"`
}

// Entry returns the entry for path, if the run reached it.
func (r *Report) Entry(path string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Path == path {
			return e, true
		}
	}
	return Entry{}, false
}

// Count returns the number of entries with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

// Succeeded reports whether every entry completed.
func (r *Report) Succeeded() bool {
	return r.Count(StatusCompleted) == len(r.Entries)
}
