package pdftext

import "fmt"

// Error is a failed text extraction. Page is zero when the failure was not
// tied to a single page.
type Error struct {
	Page    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	prefix := "pdf"
	if e.Page > 0 {
		prefix = fmt.Sprintf("pdf page %d", e.Page)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
