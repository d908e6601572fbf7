// Package sagalog defines the run journal of the split pipeline.
//
// Each pipeline transition appends one immutable Entry. The journal is write-only
// from the pipeline's point of view: decisions are always made from the remote
// order's tags, never from this log. It exists so an operator can reconstruct
// where a failed run stopped (for example, cancelled but only one draft created)
// and jump to the matching trace.
package sagalog

import "time"

// Status is the pipeline transition an entry records.
type Status string

const (
	StatusStarted    Status = "STARTED"
	StatusSkipped    Status = "SKIPPED"
	StatusNoSplit    Status = "NO_SPLIT"
	StatusStepDone   Status = "STEP_DONE"
	StatusStepFailed Status = "STEP_FAILED"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Entry is a single row in the split_runs journal.
type Entry struct {
	// RunID identifies one invocation of the pipeline.
	RunID string

	// OrderID is the remote identifier of the original order.
	OrderID string

	Status Status

	// Step is the name of the step that just ran, empty for run-level transitions.
	Step string

	// Detail is a JSON document describing the transition (skip reason, created order refs).
	Detail string

	// ErrorMessages is a JSON array of error strings.
	ErrorMessages string

	// TraceID and SpanID come from the OpenTelemetry span active when the entry was written.
	TraceID string
	SpanID  string

	RecordedAt time.Time
}
