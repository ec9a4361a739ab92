package parsing

import (
	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/types"
)

type outcomeTag int

const (
	tagFailure outcomeTag = iota
	tagSuccess
)

// Outcome is the result of one parse: either a CanonicalProfile or a
// classified failure. The zero value is a failure of unknown kind.
type Outcome struct {
	tag     outcomeTag
	profile types.CanonicalProfile
	err     *failure.Error
}

// Succeeded wraps a parsed profile.
func Succeeded(p types.CanonicalProfile) Outcome {
	return Outcome{tag: tagSuccess, profile: p}
}

// Failed wraps a failure. A nil err becomes an unknown failure.
func Failed(err *failure.Error) Outcome {
	if err == nil {
		err = failure.New(failure.KindUnknown, nil)
	}
	return Outcome{tag: tagFailure, err: err}
}

// Profile returns the parsed profile when the outcome is a success.
func (o Outcome) Profile() (types.CanonicalProfile, bool) {
	return o.profile, o.tag == tagSuccess
}

// Failure returns the failure when the outcome is not a success.
func (o Outcome) Failure() (*failure.Error, bool) {
	if o.tag == tagSuccess {
		return nil, false
	}
	if o.err == nil {
		return failure.New(failure.KindUnknown, nil), true
	}
	return o.err, true
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.tag == tagSuccess
}
