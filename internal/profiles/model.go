package profiles

import (
	"strings"
	"time"
)

// Profile is a stored user record.
type Profile struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	Role                string    `json:"role"`
	Skills              []string  `json:"skills"`
	Interests           []string  `json:"interests"`
	CareerGoals         []string  `json:"career_goals"`
	Goals               string    `json:"goals"`
	ExperienceLevel     string    `json:"experience_level"`
	PreferredIndustries []string  `json:"preferred_industries"`
	Education           string    `json:"education"`
	Experience          string    `json:"experience"`
	Location            string    `json:"location"`
	ResumeKey           string    `json:"-"`
	ResumeText          string    `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Level is a coarse experience bracket.
type Level string

const (
	LevelBeginner Level = "beginner"
	LevelMid      Level = "mid"
	LevelSenior   Level = "senior"
	LevelExpert   Level = "expert"
)

// ParseLevel maps free-form experience labels onto a Level. Unknown or
// empty input is treated as beginner.
func ParseLevel(raw string) Level {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return LevelBeginner
	case strings.Contains(s, "expert"), strings.Contains(s, "executive"), strings.Contains(s, "principal"), strings.Contains(s, "lead"):
		return LevelExpert
	case strings.Contains(s, "senior"), strings.Contains(s, "advanced"):
		return LevelSenior
	case strings.Contains(s, "mid"), strings.Contains(s, "intermediate"):
		return LevelMid
	default:
		return LevelBeginner
	}
}

// ValidLevel reports whether raw names a known experience label.
func ValidLevel(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, known := range []string{"beginner", "entry", "junior", "mid", "intermediate", "senior", "advanced", "expert", "executive", "lead", "principal"} {
		if strings.Contains(s, known) {
			return true
		}
	}
	return false
}

// Context is the projection of a profile handed to prompt builders and
// fallback generators. It carries no identifiers, credentials or timestamps.
type Context struct {
	Name                string
	Skills              []string
	Interests           []string
	CareerGoals         []string
	Goals               string
	Level               Level
	ExperienceLabel     string
	PreferredIndustries []string
	Education           string
	Experience          string
	Location            string
}

// Context returns the downstream-safe view of p.
func (p Profile) Context() Context {
	return Context{
		Name:                p.Name,
		Skills:              clone(p.Skills),
		Interests:           clone(p.Interests),
		CareerGoals:         clone(p.CareerGoals),
		Goals:               p.Goals,
		Level:               ParseLevel(p.ExperienceLevel),
		ExperienceLabel:     p.ExperienceLevel,
		PreferredIndustries: clone(p.PreferredIndustries),
		Education:           p.Education,
		Experience:          p.Experience,
		Location:            p.Location,
	}
}

// IsAdmin reports whether the profile holds the admin role.
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func clone(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
