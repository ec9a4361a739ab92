package intake

import "fmt"

// Error represents a failure to read a selected file.
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("intake %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("intake %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
