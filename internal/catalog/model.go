package catalog

import "time"

// Career is a catalog entry describing one role.
type Career struct {
	ID                    string    `json:"id" yaml:"id"`
	Title                 string    `json:"title" yaml:"title"`
	Description           string    `json:"description" yaml:"description"`
	Industry              string    `json:"industry" yaml:"industry"`
	ExperienceLevel       string    `json:"experience_level" yaml:"experience_level"`
	SalaryRange           string    `json:"salary_range" yaml:"salary_range"`
	WorkType              string    `json:"work_type" yaml:"work_type"`
	RequiredSkills        []string  `json:"required_skills" yaml:"required_skills"`
	PreferredSkills       []string  `json:"preferred_skills" yaml:"preferred_skills"`
	EducationRequirements string    `json:"education_requirements" yaml:"education_requirements"`
	GrowthProspects       string    `json:"growth_prospects" yaml:"growth_prospects"`
	GrowthRate            float64   `json:"growth_rate" yaml:"growth_rate"`
	Popularity            int       `json:"popularity" yaml:"popularity"`
	CreatedAt             time.Time `json:"created_at" yaml:"-"`
	UpdatedAt             time.Time `json:"updated_at" yaml:"-"`
}

// Skill is a catalog entry describing one learnable skill.
type Skill struct {
	ID                string    `json:"id" yaml:"id"`
	Name              string    `json:"name" yaml:"name"`
	Description       string    `json:"description" yaml:"description"`
	Category          string    `json:"category" yaml:"category"`
	DifficultyLevel   string    `json:"difficulty_level" yaml:"difficulty_level"`
	DemandLevel       string    `json:"demand_level" yaml:"demand_level"`
	RelatedCareers    []string  `json:"related_careers" yaml:"related_careers"`
	LearningResources []string  `json:"learning_resources" yaml:"learning_resources"`
	CreatedAt         time.Time `json:"created_at" yaml:"-"`
	UpdatedAt         time.Time `json:"updated_at" yaml:"-"`
}

// Filter narrows catalog listings. Zero values mean no constraint.
type Filter struct {
	Query    string
	Industry string
	Category string
	Limit    int
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

func (f Filter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultLimit
	case f.Limit > MaxLimit:
		return MaxLimit
	default:
		return f.Limit
	}
}
