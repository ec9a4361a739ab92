package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// APIError is a failed model call.
type APIError struct {
	Model   string
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model %s: %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("model %s: %s", e.Model, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("empty model response")

// IsUnavailable reports whether err means the model could not serve the
// request right now: overload, quota, timeouts or 5xx from the API.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusBadGateway:
			return true
		}
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"unavailable", "overloaded", "resource_exhausted", "quota", "deadline exceeded", "429", "503"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
