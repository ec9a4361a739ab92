package failure

import (
	"errors"
	"fmt"
)

// Error is a classified pipeline failure.
type Error struct {
	Kind Kind
	// Message is safe to show to the user.
	Message   string
	Retryable bool
	// Fallback is set when the failure happened on the client-side fallback path.
	Fallback bool
	// Status is the HTTP status that caused the failure, if any.
	Status int
	Cause  error
}

// New creates an Error of kind k with its default message.
func New(k Kind, cause error) *Error {
	return &Error{
		Kind:      k,
		Message:   k.DefaultMessage(),
		Retryable: k.Retryable(),
		Cause:     cause,
	}
}

// Newf creates an Error of kind k with a formatted message.
func Newf(k Kind, cause error, format string, args ...any) *Error {
	e := New(k, cause)
	e.Message = fmt.Sprintf(format, args...)
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns the message to display, framed for the fallback path when needed.
func (e *Error) UserMessage() string {
	if e.Fallback {
		return "Fallback also failed: " + e.Message
	}
	return e.Message
}

// AsFallback returns a copy of e marked as a fallback-path failure.
func (e *Error) AsFallback() *Error {
	cp := *e
	cp.Fallback = true
	return &cp
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// TransportError is a failed call to the extraction endpoint. StatusCode is
// zero when no response was received.
type TransportError struct {
	StatusCode int
	// Detail is the server-provided detail, already rendered to a string.
	// Empty when the server sent none or sent a non-string detail.
	Detail string
	Cause  error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Cause != nil:
		return fmt.Sprintf("transport error: no response: %v", e.Cause)
	case e.StatusCode == 0:
		return "transport error: no response"
	case e.Detail != "":
		return fmt.Sprintf("transport error: status %d: %s", e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("transport error: status %d", e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
