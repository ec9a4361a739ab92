// Package types provides type definitions for structured data used throughout the jobmatch system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ParsingMethod records which producer generated a CanonicalProfile.
type ParsingMethod string

const (
	// ParsingMethodServerAI means the extraction service parsed the resume with its model.
	ParsingMethodServerAI ParsingMethod = "server_ai"
	// ParsingMethodServerFallback means the service's model failed and keyword heuristics were used.
	ParsingMethodServerFallback ParsingMethod = "server_fallback"
	// ParsingMethodServerManual means the service had no model configured.
	ParsingMethodServerManual ParsingMethod = "server_manual"
	// ParsingMethodClientAI means the client extracted the PDF locally and called the model directly.
	ParsingMethodClientAI ParsingMethod = "client_ai"
)

// ParseParsingMethod maps a declared provenance string onto a known ParsingMethod.
// The second return value is false for empty or unrecognised input.
func ParseParsingMethod(s string) (ParsingMethod, bool) {
	switch m := ParsingMethod(s); m {
	case ParsingMethodServerAI, ParsingMethodServerFallback, ParsingMethodServerManual, ParsingMethodClientAI:
		return m, true
	default:
		return "", false
	}
}

// IsServer reports whether the profile was produced by the extraction service.
func (m ParsingMethod) IsServer() bool {
	return m == ParsingMethodServerAI || m == ParsingMethodServerFallback || m == ParsingMethodServerManual
}

// CanonicalProfile is the single normalized shape of parsed resume data.
// Every list field is non-nil after normalization.
type CanonicalProfile struct {
	Skills          []string      `json:"skills"`
	ExperienceYears int           `json:"experience_years"`
	Education       []Education   `json:"education"`
	JobTitles       []string      `json:"job_titles"`
	Achievements    []string      `json:"achievements"`
	Certifications  []string      `json:"certifications"`
	Languages       []string      `json:"languages"`
	Projects        []Project     `json:"projects"`
	Contact         Contact       `json:"contact"`
	ParsingMethod   ParsingMethod `json:"parsing_method"`
}

// Education is one education entry of a resume.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year,omitempty"`
}

// Project is one project entry of a resume.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies"`
}

// Contact holds the scalar contact fields found in a resume.
type Contact struct {
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// EmptyProfile returns a CanonicalProfile with every list field set to an empty slice.
func EmptyProfile(method ParsingMethod) CanonicalProfile {
	return CanonicalProfile{
		Skills:         []string{},
		Education:      []Education{},
		JobTitles:      []string{},
		Achievements:   []string{},
		Certifications: []string{},
		Languages:      []string{},
		Projects:       []Project{},
		ParsingMethod:  method,
	}
}
