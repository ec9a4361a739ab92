// Package server provides the HTTP API of the resume extraction service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/jobmatch/internal/parsing"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrUnsupportedMediaType indicates an upload that is not a PDF
type ErrUnsupportedMediaType struct {
	ContentType string
}

func (e *ErrUnsupportedMediaType) Error() string {
	return "Only PDF files are supported"
}

// ErrPayloadTooLarge indicates a request body over the upload ceiling
type ErrPayloadTooLarge struct {
	Limit int64
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("File too large. Maximum size is %d MB", e.Limit/(1024*1024))
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrUnauthorized indicates a request without an authenticated user
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "Not authenticated"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		mediaType   *ErrUnsupportedMediaType
		tooLarge    *ErrPayloadTooLarge
		maxBytes    *http.MaxBytesError
		notFound    *ErrNotFound
		unauth      *ErrUnauthorized
		modelFailed *parsing.ModelError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &mediaType):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &tooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.As(err, &modelFailed):
		if modelFailed.Unavailable {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorDetail returns the client-facing message for err. Errors without a
// user-facing type get a generic message.
func errorDetail(err error) string {
	var modelFailed *parsing.ModelError
	if errors.As(err, &modelFailed) {
		if modelFailed.Unavailable {
			return "AI parsing service is temporarily unavailable"
		}
		return "AI parsing failed"
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return (&ErrPayloadTooLarge{Limit: maxBytes.Limit}).Error()
	}

	switch HTTPStatus(err) {
	case http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}
