package parsing

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/jobmatch/internal/pdftext"
	"github.com/jonathan/jobmatch/internal/types"
)

// Normalize converts the output of either producer into a CanonicalProfile.
// It accepts any decoded JSON value and never fails: list fields given as a
// single string or object are wrapped, anything else becomes an empty list.
//
// method tags provenance. When it is empty, a known parsing_method declared
// in raw is used, and server_manual otherwise.
func Normalize(raw any, method types.ParsingMethod) types.CanonicalProfile {
	m, _ := raw.(map[string]any)

	if _, ok := types.ParseParsingMethod(string(method)); !ok {
		method = types.ParsingMethodServerManual
		if declared, ok := types.ParseParsingMethod(stringField(m, "parsing_method")); ok {
			method = declared
		}
	}

	p := types.EmptyProfile(method)
	if m == nil {
		return p
	}

	p.Skills = boundedList(m["skills"], types.MaxSkills, types.MaxSkillLength)
	p.JobTitles = boundedList(m["job_titles"], types.MaxJobTitles, types.MaxJobTitleLength)
	p.Achievements = boundedList(m["achievements"], types.MaxAchievements, types.MaxAchievementLength)
	p.Certifications = boundedList(m["certifications"], types.MaxCertifications, types.MaxCertificationLength)
	p.Languages = boundedList(m["languages"], types.MaxLanguages, types.MaxLanguageLength)
	p.Education = educationList(m["education"])
	p.Projects = projectList(m["projects"])

	if v, ok := m["experience_years"]; ok {
		p.ExperienceYears = experienceYears(v)
	} else {
		p.ExperienceYears = experienceYears(m["experience"])
	}

	contact, _ := m["contact"].(map[string]any)
	p.Contact = types.Contact{
		Phone:    clip(firstNonEmpty(stringField(contact, "phone"), stringField(m, "phone")), types.MaxPhoneLength),
		Location: clip(firstNonEmpty(stringField(contact, "location"), stringField(m, "location")), types.MaxLocationLength),
		Bio: clip(firstNonEmpty(stringField(contact, "bio"), stringField(contact, "summary"),
			stringField(m, "bio"), stringField(m, "summary")), types.MaxBioLength),
	}
	return p
}

// stringList returns trimmed, non-empty strings deduplicated case-insensitively.
func stringList(v any) []string {
	return boundedList(v, 0, 0)
}

// boundedList is stringList keeping at most maxItems entries of at most
// maxLen runes each. Zero means unbounded.
func boundedList(v any, maxItems, maxLen int) []string {
	out := []string{}
	seen := make(map[string]bool)
	add := func(s string) {
		if maxItems > 0 && len(out) >= maxItems {
			return
		}
		s = clip(s, maxLen)
		if s == "" {
			return
		}
		key := strings.ToLower(s)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}

	switch x := v.(type) {
	case []any:
		for _, item := range x {
			if s, ok := scalarString(item); ok {
				add(s)
			}
		}
	case []string:
		for _, s := range x {
			add(s)
		}
	default:
		if s, ok := scalarString(x); ok {
			add(s)
		}
	}
	return out
}

// scalarString renders a string, a number, or an object's name-like field.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case json.Number:
		return x.String(), true
	case map[string]any:
		for _, key := range []string{"name", "title", "value", "skill"} {
			if s, ok := x[key].(string); ok && strings.TrimSpace(s) != "" {
				return s, true
			}
		}
	}
	return "", false
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := scalarString(m[key]); ok {
		if _, isObj := m[key].(map[string]any); !isObj {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// clip trims s and cuts it to at most limit runes. Zero means unbounded.
func clip(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit > 0 {
		s = strings.TrimSpace(pdftext.Truncate(s, limit))
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var leadingNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

func experienceYears(v any) int {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		match := leadingNumber.FindString(x)
		if match == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(math.Min(math.Floor(f), types.MaxExperienceYears))
}

func educationList(v any) []types.Education {
	out := []types.Education{}
	seen := make(map[string]bool)
	add := func(e types.Education) {
		if len(out) >= types.MaxEducation || (e.Degree == "" && e.Institution == "") {
			return
		}
		key := strings.ToLower(e.Degree + "|" + e.Institution + "|" + e.Year)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, e)
	}

	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}
	for _, item := range items {
		switch x := item.(type) {
		case map[string]any:
			add(types.Education{
				Degree:      stringField(x, "degree"),
				Institution: firstNonEmpty(stringField(x, "institution"), stringField(x, "school"), stringField(x, "university")),
				Year:        firstNonEmpty(stringField(x, "year"), stringField(x, "graduation_year")),
			})
		case string:
			add(types.Education{Degree: strings.TrimSpace(x)})
		}
	}
	return out
}

func projectList(v any) []types.Project {
	out := []types.Project{}
	seen := make(map[string]bool)
	add := func(p types.Project) {
		if len(out) >= types.MaxProjects || p.Name == "" {
			return
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, p)
	}

	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}
	for _, item := range items {
		switch x := item.(type) {
		case map[string]any:
			add(types.Project{
				Name:         firstNonEmpty(stringField(x, "name"), stringField(x, "title")),
				Description:  stringField(x, "description"),
				Technologies: stringList(x["technologies"]),
			})
		case string:
			add(types.Project{Name: strings.TrimSpace(x), Technologies: []string{}})
		}
	}
	return out
}
