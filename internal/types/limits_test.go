//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func filled(n, length int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strings.Repeat("a", length)
	}
	return out
}

func TestLimitsMatchValidation(t *testing.T) {
	tests := []struct {
		name  string
		build func(extra int) ProfileUpdateRequest
	}{
		{"skills count", func(e int) ProfileUpdateRequest { return ProfileUpdateRequest{Skills: filled(MaxSkills+e, 1)} }},
		{"skill length", func(e int) ProfileUpdateRequest { return ProfileUpdateRequest{Skills: filled(1, MaxSkillLength+e)} }},
		{"job titles count", func(e int) ProfileUpdateRequest { return ProfileUpdateRequest{JobTitles: filled(MaxJobTitles+e, 1)} }},
		{"job title length", func(e int) ProfileUpdateRequest {
			return ProfileUpdateRequest{JobTitles: filled(1, MaxJobTitleLength+e)}
		}},
		{"achievements count", func(e int) ProfileUpdateRequest {
			return ProfileUpdateRequest{Achievements: filled(MaxAchievements+e, 1)}
		}},
		{"achievement length", func(e int) ProfileUpdateRequest {
			return ProfileUpdateRequest{Achievements: filled(1, MaxAchievementLength+e)}
		}},
		{"certifications count", func(e int) ProfileUpdateRequest {
			return ProfileUpdateRequest{Certifications: filled(MaxCertifications+e, 1)}
		}},
		{"certification length", func(e int) ProfileUpdateRequest {
			return ProfileUpdateRequest{Certifications: filled(1, MaxCertificationLength+e)}
		}},
		{"languages count", func(e int) ProfileUpdateRequest { return ProfileUpdateRequest{Languages: filled(MaxLanguages+e, 1)} }},
		{"language length", func(e int) ProfileUpdateRequest {
			return ProfileUpdateRequest{Languages: filled(1, MaxLanguageLength+e)}
		}},
		{"education count", func(e int) ProfileUpdateRequest {
			return ProfileUpdateRequest{Education: make([]Education, MaxEducation+e)}
		}},
		{"projects count", func(e int) ProfileUpdateRequest {
			return ProfileUpdateRequest{Projects: make([]Project, MaxProjects+e)}
		}},
		{"phone length", func(e int) ProfileUpdateRequest {
			return ProfileUpdateRequest{Phone: strings.Repeat("1", MaxPhoneLength+e)}
		}},
		{"location length", func(e int) ProfileUpdateRequest {
			return ProfileUpdateRequest{Location: strings.Repeat("a", MaxLocationLength+e)}
		}},
		{"bio length", func(e int) ProfileUpdateRequest { return ProfileUpdateRequest{Bio: strings.Repeat("a", MaxBioLength+e)} }},
		{"experience", func(e int) ProfileUpdateRequest { return ProfileUpdateRequest{Experience: MaxExperienceYears + e} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atLimit := tt.build(0)
			assert.NoError(t, atLimit.Validate())

			overLimit := tt.build(1)
			assert.Error(t, overLimit.Validate())
		})
	}
}
