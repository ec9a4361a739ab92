package types

// ProfileState is the user's stored profile that parsed resumes are merged into.
type ProfileState struct {
	FullName       string      `json:"full_name,omitempty"`
	Skills         []string    `json:"skills"`
	Bio            string      `json:"bio,omitempty"`
	Location       string      `json:"location,omitempty"`
	Phone          string      `json:"phone,omitempty"`
	Experience     int         `json:"experience"`
	Education      []Education `json:"education"`
	JobTitles      []string    `json:"job_titles"`
	Achievements   []string    `json:"achievements"`
	Certifications []string    `json:"certifications"`
	Languages      []string    `json:"languages"`
	Projects       []Project   `json:"projects"`
	// ResumeParsingMethod is the provenance of the most recently merged resume.
	ResumeParsingMethod ParsingMethod `json:"resume_parsing_method,omitempty"`
}
