package profile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobmatch/internal/types"
)

func TestMerge_FillsGaps(t *testing.T) {
	existing := types.ProfileState{FullName: "Jane Doe"}
	canonical := types.CanonicalProfile{
		Skills:          []string{"Go", "SQL"},
		ExperienceYears: 5,
		Education:       []types.Education{{Degree: "BSc", Institution: "TU Berlin"}},
		Contact:         types.Contact{Phone: "555-0100", Location: "Berlin", Bio: "Engineer"},
		ParsingMethod:   types.ParsingMethodServerAI,
	}

	got := Merge(existing, canonical)

	assert.Equal(t, "Jane Doe", got.FullName)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
	assert.Equal(t, 5, got.Experience)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, "Berlin", got.Location)
	assert.Equal(t, "Engineer", got.Bio)
	assert.Equal(t, canonical.Education, got.Education)
	assert.Equal(t, types.ParsingMethodServerAI, got.ResumeParsingMethod)
}

func TestMerge_NeverOverwritesUserData(t *testing.T) {
	existing := types.ProfileState{
		Skills:     []string{"golang", "Leadership"},
		Phone:      "111",
		Location:   "Hamburg",
		Bio:        "Written by me",
		Experience: 10,
		Projects:   []types.Project{{Name: "jobmatch", Description: "mine"}},
	}
	canonical := types.CanonicalProfile{
		Skills:          []string{"Go", "LEADERSHIP", " leadership ", "Docker"},
		ExperienceYears: 3,
		Projects:        []types.Project{{Name: "JobMatch", Description: "parsed"}, {Name: "crawler"}},
		Contact:         types.Contact{Phone: "222", Location: "Berlin", Bio: "Parsed bio"},
	}

	got := Merge(existing, canonical)

	assert.Equal(t, []string{"golang", "Leadership", "Go", "Docker"}, got.Skills)
	assert.Equal(t, "111", got.Phone)
	assert.Equal(t, "Hamburg", got.Location)
	assert.Equal(t, "Written by me", got.Bio)
	assert.Equal(t, 10, got.Experience)
	assert.Equal(t, []types.Project{{Name: "jobmatch", Description: "mine"}, {Name: "crawler"}}, got.Projects)
}

func TestMerge_WhitespaceScalarIsEmpty(t *testing.T) {
	got := Merge(types.ProfileState{Phone: "   "}, types.CanonicalProfile{Contact: types.Contact{Phone: " 555 "}})
	assert.Equal(t, "555", got.Phone)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	skills := make([]string, 1, 10)
	skills[0] = "Go"
	existing := types.ProfileState{Skills: skills}

	got := Merge(existing, types.CanonicalProfile{Skills: []string{"Rust"}})

	assert.Equal(t, []string{"Go", "Rust"}, got.Skills)
	assert.Equal(t, []string{"Go"}, existing.Skills)
	// The spare capacity of the caller's slice was not written to.
	assert.Equal(t, "", skills[:2][1])
}

func TestMerge_Properties(t *testing.T) {
	existingStates := []types.ProfileState{
		{},
		{Skills: []string{"Go"}, Phone: "1"},
		{Skills: []string{"a", "A", "b"}, JobTitles: []string{"Dev"}, Bio: "x", Location: "y", Experience: 2,
			Education: []types.Education{{Degree: "BSc"}}, Languages: []string{"English"}},
	}
	parsed := []types.CanonicalProfile{
		types.EmptyProfile(types.ParsingMethodServerManual),
		{Skills: []string{"go", "Rust"}, JobTitles: []string{"dev", "Lead"}, Contact: types.Contact{Phone: "2", Bio: "z", Location: "w"}, ExperienceYears: 7},
		{Education: []types.Education{{Degree: "bsc"}, {Degree: "MSc"}}, Languages: []string{"ENGLISH", "German"}},
	}

	for i, existing := range existingStates {
		for j, canonical := range parsed {
			t.Run(fmt.Sprintf("state%d_parsed%d", i, j), func(t *testing.T) {
				got := Merge(existing, canonical)

				assert.GreaterOrEqual(t, len(got.Skills), len(existing.Skills))
				assert.GreaterOrEqual(t, len(got.JobTitles), len(existing.JobTitles))
				assert.GreaterOrEqual(t, len(got.Education), len(existing.Education))
				assert.GreaterOrEqual(t, len(got.Languages), len(existing.Languages))
				if len(existing.Skills) > 0 {
					assert.Equal(t, existing.Skills, got.Skills[:len(existing.Skills)])
				}

				if existing.Phone != "" {
					assert.Equal(t, existing.Phone, got.Phone)
				}
				if existing.Bio != "" {
					assert.Equal(t, existing.Bio, got.Bio)
				}
				if existing.Location != "" {
					assert.Equal(t, existing.Location, got.Location)
				}
				if existing.Experience > 0 {
					assert.Equal(t, existing.Experience, got.Experience)
				}

				// Merging the same parse twice changes nothing further.
				assert.Equal(t, got, Merge(got, canonical))
			})
		}
	}
}

func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s %d", prefix, i)
	}
	return out
}

func TestMerge_StopsAtStoredLimits(t *testing.T) {
	existing := types.ProfileState{
		Skills:    numbered("existing", types.MaxSkills-2),
		Languages: numbered("lang", types.MaxLanguages),
	}
	canonical := types.CanonicalProfile{
		Skills:       numbered("parsed", 10),
		Languages:    []string{"Portuguese"},
		Achievements: numbered("win", types.MaxAchievements+3),
		Projects:     make([]types.Project, 0),
	}
	for _, name := range numbered("project", types.MaxProjects+1) {
		canonical.Projects = append(canonical.Projects, types.Project{Name: name})
	}

	got := Merge(existing, canonical)

	assert.Len(t, got.Skills, types.MaxSkills)
	assert.Equal(t, existing.Skills, got.Skills[:len(existing.Skills)])
	assert.Equal(t, []string{"parsed 0", "parsed 1"}, got.Skills[len(existing.Skills):])
	assert.Equal(t, existing.Languages, got.Languages, "full list takes nothing new")
	assert.Len(t, got.Achievements, types.MaxAchievements)
	assert.Len(t, got.Projects, types.MaxProjects)

	req := types.NewProfileUpdateRequest(got)
	assert.NoError(t, req.Validate())
}

func TestMerge_KeepsOversizedExistingLists(t *testing.T) {
	existing := types.ProfileState{Languages: numbered("lang", types.MaxLanguages+5)}

	got := Merge(existing, types.CanonicalProfile{Languages: []string{"Portuguese"}})

	assert.Equal(t, existing.Languages, got.Languages)
}
