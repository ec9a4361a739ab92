package pipeline

// State is a pipeline stage.
type State string

const (
	StateIdle            State = "idle"
	StateValidating      State = "validating"
	StateRejected        State = "rejected"
	StateSubmitting      State = "submitting"
	StateClassifying     State = "classifying"
	StateProbing         State = "probing_capability"
	StateFallbackOffered State = "fallback_offered"
	StateExtracting      State = "extracting_text"
	StateInvoking        State = "invoking_model"
	StateNormalizing     State = "normalizing"
	StateMerged          State = "merged"
	StateTerminalError   State = "terminal_error"
	StateSuperseded      State = "superseded"
)

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	switch s {
	case StateRejected, StateMerged, StateTerminalError, StateSuperseded:
		return true
	default:
		return false
	}
}

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	AttemptID string `json:"attempt_id"`
	State     State  `json:"state"`
	Message   string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)
