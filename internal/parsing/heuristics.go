package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/jobmatch/internal/types"
)

// maxKeywordSkills caps the skills found by keyword matching.
const maxKeywordSkills = 15

var commonSkills = []string{
	"Python", "Java", "JavaScript", "TypeScript", "React", "Angular", "Vue",
	"Node.js", "Express", "Django", "Flask", "FastAPI",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes",
	"Git", "CI/CD", "Jenkins", "GitHub Actions",
	"Machine Learning", "AI", "Data Science", "TensorFlow", "PyTorch",
	"HTML", "CSS", "REST API", "GraphQL",
	"Agile", "Scrum", "Project Management", "Leadership",
	"Communication", "Problem Solving", "Team Collaboration",
}

// Longer titles first so "Senior Software Engineer" wins over "Software Engineer".
var commonJobTitles = []string{
	"Senior Software Engineer", "Staff Software Engineer", "Principal Engineer",
	"Machine Learning Engineer", "Site Reliability Engineer", "Engineering Manager",
	"Full Stack Developer", "Frontend Developer", "Backend Developer", "Mobile Developer",
	"Software Engineer", "Software Developer", "DevOps Engineer", "Data Engineer",
	"Data Scientist", "Data Analyst", "QA Engineer", "Solutions Architect",
	"Technical Lead", "Product Manager", "Project Manager", "UX Designer",
}

var (
	skillPatterns = compileTerms(commonSkills)
	titlePatterns = compileTerms(commonJobTitles)

	yearsOfExperience = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*\+?\s*years?\s+(?:of\s+)?experience`),
		regexp.MustCompile(`experience\s+(?:of\s+)?(\d+)\s*\+?\s*years?`),
	}
	yearRange = regexp.MustCompile(`((?:19|20)\d{2})\s*[-–]\s*((?:19|20)\d{2}|present|current|now)`)
)

func compileTerms(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		out[i] = regexp.MustCompile(`(?i)(?:^|[^\pL\pN])` + regexp.QuoteMeta(term) + `(?:$|[^\pL\pN])`)
	}
	return out
}

// KeywordSkills returns the common skills mentioned in text, in list order.
func KeywordSkills(text string) []string {
	found := []string{}
	for i, re := range skillPatterns {
		if len(found) == maxKeywordSkills {
			break
		}
		if re.MatchString(text) {
			found = append(found, commonSkills[i])
		}
	}
	return found
}

// KeywordJobTitles returns the common job titles mentioned in text, skipping
// titles contained in an already matched longer title.
func KeywordJobTitles(text string) []string {
	found := []string{}
	for i, re := range titlePatterns {
		if !re.MatchString(text) {
			continue
		}
		title := commonJobTitles[i]
		covered := false
		for _, f := range found {
			if strings.Contains(strings.ToLower(f), strings.ToLower(title)) {
				covered = true
				break
			}
		}
		if !covered {
			found = append(found, title)
		}
	}
	return found
}

// KeywordExperienceYears estimates years of experience from explicit
// statements ("5+ years of experience") and employment year ranges. The
// largest candidate wins.
func KeywordExperienceYears(text string, now time.Time) int {
	lower := strings.ToLower(text)
	best := 0

	for _, re := range yearsOfExperience {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil && n <= types.MaxExperienceYears && n > best {
				best = n
			}
		}
	}

	for _, m := range yearRange.FindAllStringSubmatch(lower, -1) {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := now.Year()
		if n, err := strconv.Atoi(m[2]); err == nil {
			end = n
		}
		if span := end - start; span >= 0 && span <= types.MaxExperienceYears && span > best {
			best = span
		}
	}
	return best
}

// KeywordProfile builds a raw profile from keyword heuristics alone.
func KeywordProfile(text string, now time.Time) map[string]any {
	return map[string]any{
		"skills":           KeywordSkills(text),
		"experience_years": KeywordExperienceYears(text, now),
		"job_titles":       KeywordJobTitles(text),
		"education":        []any{},
		"achievements":     []any{},
	}
}
