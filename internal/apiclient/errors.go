package apiclient

import (
	"errors"
	"fmt"
)

// ErrMalformedEnvelope is returned when a success response carries no parsed_data.
var ErrMalformedEnvelope = errors.New("malformed response envelope")

// Error is a failed profile API call.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	status := ""
	if e.StatusCode != 0 {
		status = fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("api error for %s%s: %s: %v", e.URL, status, e.Message, e.Cause)
	}
	return fmt.Sprintf("api error for %s%s: %s", e.URL, status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
