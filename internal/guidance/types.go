// Package guidance serves the generation-backed career endpoints:
// recommendations, skill-gap analysis, job-market analysis and chat. Every
// operation resolves to a model result or a deterministic fallback and is
// normalized to one response shape either way.
package guidance

import (
	"time"

	"career-backend/internal/profiles"
)

// Recommendation is one suggested career.
type Recommendation struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	Industry              string   `json:"industry"`
	ExperienceLevel       string   `json:"experience_level"`
	SalaryRange           string   `json:"salary_range"`
	WorkType              string   `json:"work_type"`
	RequiredSkills        []string `json:"required_skills"`
	MatchScore            float64  `json:"match_score"`
	GrowthPotential       string   `json:"growth_potential"`
	EducationRequirements string   `json:"education_requirements"`
}

type LearningRecommendation struct {
	Skill       string   `json:"skill"`
	Description string   `json:"description"`
	Resources   []string `json:"resources"`
	Projects    []string `json:"projects"`
}

type SkillGapAnalysis struct {
	UserSkills              []string                 `json:"user_skills"`
	RequiredSkillsForGoals  []string                 `json:"required_skills_for_goals"`
	SkillsGap               []string                 `json:"skills_gap"`
	LearningRecommendations []LearningRecommendation `json:"learning_recommendations"`
}

type OverallTrends struct {
	Trend       string `json:"trend"`
	Description string `json:"description"`
}

type IndustrySegment struct {
	Name     string   `json:"name"`
	Trend    string   `json:"trend"`
	Growth   string   `json:"growth"`
	KeyRoles []string `json:"key_roles"`
}

type LocationStat struct {
	Name          string `json:"name"`
	JobOpenings   int    `json:"job_openings"`
	AverageSalary int    `json:"average_salary"`
}

// MarketAnalysis always carries the four core fields. The rest are passed
// through from model output when present.
type MarketAnalysis struct {
	OverallTrends    OverallTrends     `json:"overall_trends"`
	AverageSalary    int               `json:"average_salary"`
	IndustryAnalysis []IndustrySegment `json:"industry_analysis"`
	TopLocations     []LocationStat    `json:"top_locations"`

	MarketTrends     string   `json:"market_trends,omitempty"`
	GrowthRate       string   `json:"growth_rate,omitempty"`
	SalaryRange      string   `json:"salary_range,omitempty"`
	JobAvailability  string   `json:"job_availability,omitempty"`
	RequiredSkills   []string `json:"required_skills,omitempty"`
	IndustryInsights string   `json:"industry_insights,omitempty"`
}

// MarketQuery holds the filters of one market analysis request. Profile is
// nil when no user was named or the user does not exist.
type MarketQuery struct {
	CareerField     string
	Industry        string
	Location        string
	ExperienceLevel string
	Profile         *profiles.Context
}

type ChatTurn struct {
	Role     string `json:"role,omitempty"`
	Content  string `json:"content,omitempty"`
	Message  string `json:"message,omitempty"`
	Response string `json:"response,omitempty"`
}

type ChatRequest struct {
	Message             string     `json:"message"`
	Context             string     `json:"context"`
	ConversationHistory []ChatTurn `json:"conversation_history"`
}

// Conversation is one stored chat exchange.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

type RecommendationsResponse struct {
	Success         bool             `json:"success"`
	UserID          string           `json:"user_id"`
	Recommendations []Recommendation `json:"recommendations"`
	Timestamp       string           `json:"timestamp"`
}

type SkillGapResponse struct {
	Success      bool             `json:"success"`
	UserID       string           `json:"user_id"`
	TargetCareer string           `json:"target_career"`
	Analysis     SkillGapAnalysis `json:"analysis"`
	Timestamp    string           `json:"timestamp"`
}

type MarketResponse struct {
	Success     bool           `json:"success"`
	CareerField string         `json:"career_field"`
	Analysis    MarketAnalysis `json:"analysis"`
	Timestamp   string         `json:"timestamp"`
}

type ChatResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id"`
	Exception string `json:"exception,omitempty"`
}
