package types

// Stored profile limits. They mirror the ProfileUpdateRequest validation
// tags, so a normalized and merged profile is always accepted by PUT /auth/me.
const (
	MaxSkills              = 200
	MaxSkillLength         = 100
	MaxJobTitles           = 100
	MaxJobTitleLength      = 200
	MaxAchievements        = 200
	MaxAchievementLength   = 1000
	MaxCertifications      = 100
	MaxCertificationLength = 200
	MaxLanguages           = 50
	MaxLanguageLength      = 100
	MaxEducation           = 50
	MaxProjects            = 100

	MaxPhoneLength    = 50
	MaxLocationLength = 200
	MaxBioLength      = 4000

	MaxExperienceYears = 80
)
