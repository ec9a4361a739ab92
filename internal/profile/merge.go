// Package profile merges parsed resumes into a user's stored profile.
package profile

import (
	"strings"

	"github.com/jonathan/jobmatch/internal/types"
)

// Merge returns existing with canonical merged in. Parsed values only fill
// gaps: scalar fields are set when empty, list fields are unioned with
// case-insensitive deduplication and keep existing entries first. Parsed
// entries stop being added once a list reaches its stored limit; existing
// entries are never dropped. Neither argument is modified.
func Merge(existing types.ProfileState, canonical types.CanonicalProfile) types.ProfileState {
	out := existing

	out.Phone = fillEmpty(existing.Phone, canonical.Contact.Phone)
	out.Location = fillEmpty(existing.Location, canonical.Contact.Location)
	out.Bio = fillEmpty(existing.Bio, canonical.Contact.Bio)
	if existing.Experience <= 0 && canonical.ExperienceYears > 0 {
		out.Experience = canonical.ExperienceYears
	}

	out.Skills = unionStrings(existing.Skills, canonical.Skills, types.MaxSkills)
	out.JobTitles = unionStrings(existing.JobTitles, canonical.JobTitles, types.MaxJobTitles)
	out.Achievements = unionStrings(existing.Achievements, canonical.Achievements, types.MaxAchievements)
	out.Certifications = unionStrings(existing.Certifications, canonical.Certifications, types.MaxCertifications)
	out.Languages = unionStrings(existing.Languages, canonical.Languages, types.MaxLanguages)
	out.Education = unionBy(existing.Education, canonical.Education, types.MaxEducation, educationKey)
	out.Projects = unionBy(existing.Projects, canonical.Projects, types.MaxProjects, projectKey)

	if canonical.ParsingMethod != "" {
		out.ResumeParsingMethod = canonical.ParsingMethod
	}
	return out
}

func fillEmpty(current, parsed string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	if parsed = strings.TrimSpace(parsed); parsed != "" {
		return parsed
	}
	return current
}

func unionStrings(existing, parsed []string, limit int) []string {
	return unionBy(existing, parsed, limit, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
}

// unionBy appends the parsed items whose key is not already present, while
// the result holds fewer than limit items. Existing items are kept verbatim,
// duplicates included.
func unionBy[T any](existing, parsed []T, limit int, key func(T) string) []T {
	out := make([]T, 0, len(existing)+len(parsed))
	seen := make(map[string]bool, len(existing)+len(parsed))
	for _, item := range existing {
		seen[key(item)] = true
		out = append(out, item)
	}
	for _, item := range parsed {
		if len(out) >= limit {
			break
		}
		k := key(item)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out
}

func educationKey(e types.Education) string {
	if e.Degree == "" && e.Institution == "" {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(e.Degree) + "|" + strings.TrimSpace(e.Institution))
}

func projectKey(p types.Project) string {
	return strings.ToLower(strings.TrimSpace(p.Name))
}
