package domain

import "time"

// RunResult is the outcome of one leaf execution
type RunResult struct {
	Success   bool           // Whether the engine exited with status 0
	Duration  *time.Duration // Wall time, nil if the process never started
	Error     string         // Human readable cause of a failure
	Output    string         // Captured stdout
	Cancelled bool           // The run context was cancelled while the leaf ran
}

// RunRequest selects what to run. An empty Include means every known leaf.
type RunRequest struct {
	Include []string // File or leaf identifiers
}

// All reports whether the request covers every known leaf
func (r RunRequest) All() bool {
	return len(r.Include) == 0
}

// RunState is the per-leaf state within one run
type RunState string

const (
	StateQueued  RunState = "queued"
	StateRunning RunState = "running"
	StatePassed  RunState = "passed"
	StateFailed  RunState = "failed"
)

// Terminal reports whether no further transition is allowed in the same run
func (s RunState) Terminal() bool {
	return s == StatePassed || s == StateFailed
}

// RunRecord captures what happened to one leaf in a run
type RunRecord struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	FilePath          string   `json:"file_path"`
	State             RunState `json:"state"`
	Message           string   `json:"message,omitempty"`
	DurationSeconds   float64  `json:"duration_seconds,omitempty"`
	Cancelled         bool     `json:"cancelled,omitempty"`
	Output            string   `json:"output,omitempty"`
	ChecksPassed      int      `json:"checks_passed,omitempty"`
	ChecksFailed      int      `json:"checks_failed,omitempty"`
	FailedChecks      []string `json:"failed_checks,omitempty"`
	CrossedThresholds []string `json:"crossed_thresholds,omitempty"`
	Resolved          bool     `json:"resolved,omitempty"` // Track if a failure is marked as resolved
}

// RunMeta contains metadata about a run
type RunMeta struct {
	RunID           string  `json:"run_id"`
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	NotRun          int     `json:"not_run"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Cancelled       bool    `json:"cancelled"`
	Timestamp       string  `json:"timestamp"`
}

// RunReport is the complete persisted structure for the last run
type RunReport struct {
	Meta    RunMeta     `json:"meta"`
	Details []RunRecord `json:"details"`
}

// Failures returns the failed records of the report
func (r *RunReport) Failures() []RunRecord {
	var failed []RunRecord
	for _, rec := range r.Details {
		if rec.State == StateFailed {
			failed = append(failed, rec)
		}
	}
	return failed
}
