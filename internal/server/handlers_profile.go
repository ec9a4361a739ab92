package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jobmatch/internal/server/middleware"
	"github.com/jonathan/jobmatch/internal/types"
)

// maxProfileBytes caps the PUT /auth/me body.
const maxProfileBytes = 1 << 20

// handleGetMe handles GET /auth/me
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, &ErrUnauthorized{})
		return
	}

	state, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.successResponse(w, state)
}

// handleUpdateMe handles PUT /auth/me. The body replaces the stored profile.
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, &ErrUnauthorized{})
		return
	}

	var req types.ProfileUpdateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProfileBytes)).Decode(&req); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.writeError(w, r, &ErrPayloadTooLarge{Limit: maxProfileBytes})
			return
		}
		s.writeError(w, r, &ErrValidation{Message: "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	if err := s.store.SaveProfile(r.Context(), userID, req.ToState()); err != nil {
		s.writeError(w, r, err)
		return
	}

	state, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.successResponse(w, state)
}

// validationError reports the first failed field of a validator error.
func validationError(err error) *ErrValidation {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed %q validation", fe.Tag()),
		}
	}
	return &ErrValidation{Message: err.Error()}
}
