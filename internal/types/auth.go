package types

import (
	"github.com/go-playground/validator/v10"
)

// ProfileUpdateRequest is the body of PUT /auth/me. It replaces the stored profile.
type ProfileUpdateRequest struct {
	FullName       string      `json:"full_name,omitempty" validate:"max=200"`
	Skills         []string    `json:"skills" validate:"max=200,dive,required,max=100"`
	Bio            string      `json:"bio,omitempty" validate:"max=4000"`
	Location       string      `json:"location,omitempty" validate:"max=200"`
	Phone          string      `json:"phone,omitempty" validate:"max=50"`
	Experience     int         `json:"experience" validate:"min=0,max=80"`
	Education      []Education `json:"education" validate:"max=50,dive"`
	JobTitles      []string    `json:"job_titles" validate:"max=100,dive,max=200"`
	Achievements   []string    `json:"achievements" validate:"max=200,dive,max=1000"`
	Certifications []string    `json:"certifications" validate:"max=100,dive,max=200"`
	Languages      []string    `json:"languages" validate:"max=50,dive,max=100"`
	Projects       []Project   `json:"projects" validate:"max=100,dive"`

	ResumeParsingMethod ParsingMethod `json:"resume_parsing_method,omitempty" validate:"omitempty,oneof=server_ai server_fallback server_manual client_ai"`
}

// Validate validates the ProfileUpdateRequest using the validator.
func (r *ProfileUpdateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ToState converts the request into a ProfileState.
func (r *ProfileUpdateRequest) ToState() ProfileState {
	return ProfileState{
		FullName:            r.FullName,
		Skills:              r.Skills,
		Bio:                 r.Bio,
		Location:            r.Location,
		Phone:               r.Phone,
		Experience:          r.Experience,
		Education:           r.Education,
		JobTitles:           r.JobTitles,
		Achievements:        r.Achievements,
		Certifications:      r.Certifications,
		Languages:           r.Languages,
		Projects:            r.Projects,
		ResumeParsingMethod: r.ResumeParsingMethod,
	}
}

// NewProfileUpdateRequest builds the request body for a ProfileState.
func NewProfileUpdateRequest(s ProfileState) ProfileUpdateRequest {
	return ProfileUpdateRequest{
		FullName:            s.FullName,
		Skills:              s.Skills,
		Bio:                 s.Bio,
		Location:            s.Location,
		Phone:               s.Phone,
		Experience:          s.Experience,
		Education:           s.Education,
		JobTitles:           s.JobTitles,
		Achievements:        s.Achievements,
		Certifications:      s.Certifications,
		Languages:           s.Languages,
		Projects:            s.Projects,
		ResumeParsingMethod: s.ResumeParsingMethod,
	}
}
