package parsing

import "fmt"

// APICallError represents a failed call to the generative model.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a model response that is not a JSON object.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ModelError is returned by a strict ServerParser when every model attempt
// failed. Unavailable distinguishes overload and timeouts from other failures.
type ModelError struct {
	Unavailable bool
	Cause       error
}

func (e *ModelError) Error() string {
	state := "failed"
	if e.Unavailable {
		state = "unavailable"
	}
	if e.Cause != nil {
		return fmt.Sprintf("resume model %s: %v", state, e.Cause)
	}
	return "resume model " + state
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}
