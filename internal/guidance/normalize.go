package guidance

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultMatchScore    = 75
	defaultAverageSalary = 75000
)

var digitRun = regexp.MustCompile(`\d+`)

// NormalizeRecommendations converts model output into recommendations.
// Entries without a usable title still produce a row with defaults.
func NormalizeRecommendations(raw []map[string]any) []Recommendation {
	out := make([]Recommendation, 0, len(raw))
	for i, m := range raw {
		if m == nil {
			continue
		}
		id := str(m, "id")
		if id == "" {
			id = fmt.Sprintf("gemini_%d", i)
		}
		score, ok := number(m["match_score"])
		if !ok {
			score = defaultMatchScore
		}
		out = append(out, Recommendation{
			ID:                    id,
			Title:                 str(m, "career_name", "title"),
			Description:           str(m, "reason", "description"),
			Industry:              str(m, "industry"),
			ExperienceLevel:       str(m, "experience_level"),
			SalaryRange:           str(m, "salary_range"),
			WorkType:              str(m, "work_type"),
			RequiredSkills:        strList(m["required_skills"]),
			MatchScore:            score,
			GrowthPotential:       str(m, "growth_potential"),
			EducationRequirements: str(m, "education_requirements"),
		})
	}
	return finalizeRecommendations(out)
}

func finalizeRecommendations(recs []Recommendation) []Recommendation {
	for i := range recs {
		r := &recs[i]
		if r.ID == "" {
			r.ID = fmt.Sprintf("gemini_%d", i)
		}
		r.Title = orDefault(r.Title, "Unknown Career")
		r.Industry = orDefault(r.Industry, "Technology")
		r.ExperienceLevel = orDefault(r.ExperienceLevel, "Mid Level")
		r.SalaryRange = orDefault(r.SalaryRange, "Not specified")
		r.WorkType = orDefault(r.WorkType, "Full-time")
		r.GrowthPotential = orDefault(r.GrowthPotential, "medium")
		if r.RequiredSkills == nil {
			r.RequiredSkills = []string{}
		}
		if r.MatchScore == 0 {
			r.MatchScore = defaultMatchScore
		}
	}
	return recs
}

// NormalizeSkillGap converts a model skill-gap payload. Missing skills may
// be objects with skill_name or plain strings.
func NormalizeSkillGap(raw map[string]any, userSkills []string, target string) SkillGapAnalysis {
	var missing []string
	var recs []LearningRecommendation
	if items, ok := raw["missing_skills"].([]any); ok {
		for _, item := range items {
			switch v := item.(type) {
			case string:
				if s := strings.TrimSpace(v); s != "" {
					missing = append(missing, s)
					if len(recs) < maxLearningRecs {
						recs = append(recs, learningRecommendation(s, target))
					}
				}
			case map[string]any:
				s := str(v, "skill_name", "skill", "name")
				if s == "" {
					continue
				}
				missing = append(missing, s)
				if len(recs) < maxLearningRecs {
					rec := learningRecommendation(s, target)
					if d := str(v, "description"); d != "" {
						rec.Description = d
					}
					if res := strList(v["learning_resources"]); len(res) > 0 {
						rec.Resources = res
					}
					if p := strList(v["projects"]); len(p) > 0 {
						rec.Projects = p
					}
					recs = append(recs, rec)
				}
			}
		}
	}

	var required []string
	if _, ok := raw["existing_skills_match"]; ok {
		required = union(strList(raw["existing_skills_match"]), missing)
	} else {
		required = strList(raw["required_skills"])
	}
	if len(required) == 0 && len(missing) > 0 {
		required = union(missing, userSkills)
	}

	return finalizeSkillGap(SkillGapAnalysis{
		UserSkills:              append([]string{}, userSkills...),
		RequiredSkillsForGoals:  required,
		SkillsGap:               missing,
		LearningRecommendations: recs,
	})
}

func finalizeSkillGap(a SkillGapAnalysis) SkillGapAnalysis {
	if a.UserSkills == nil {
		a.UserSkills = []string{}
	}
	if a.RequiredSkillsForGoals == nil {
		a.RequiredSkillsForGoals = []string{}
	}
	if a.SkillsGap == nil {
		a.SkillsGap = []string{}
	}
	if a.LearningRecommendations == nil {
		a.LearningRecommendations = []LearningRecommendation{}
	}
	return a
}

var marketKeys = []string{
	"overall_trends", "trend", "market_trends", "description", "average_salary",
	"salary_range", "industry_analysis", "top_locations", "geographic_hotspots",
}

// hasMarketData reports whether raw carries at least one market field.
// finalizeMarket fills every default, so a mapping without any of them
// would otherwise pass as a real answer.
func hasMarketData(raw map[string]any) bool {
	for _, k := range marketKeys {
		if v, ok := raw[k]; ok && v != nil {
			return true
		}
	}
	return false
}

// NormalizeMarketAnalysis converts a model market payload, synthesizing the
// trend block and a numeric average salary when the model omitted them.
func NormalizeMarketAnalysis(raw map[string]any, careerField string) MarketAnalysis {
	var a MarketAnalysis
	if t, ok := raw["overall_trends"].(map[string]any); ok {
		a.OverallTrends = OverallTrends{Trend: str(t, "trend"), Description: str(t, "description")}
	} else {
		a.OverallTrends = OverallTrends{
			Trend:       str(raw, "trend"),
			Description: str(raw, "market_trends", "description"),
		}
	}

	salaryRange := str(raw, "salary_range")
	switch v := raw["average_salary"].(type) {
	case nil:
		a.AverageSalary = averageOfNumbers(salaryRange)
	case string:
		a.AverageSalary = firstNumber(v)
	default:
		if n, ok := number(v); ok {
			a.AverageSalary = int(math.Round(n))
		} else {
			a.AverageSalary = defaultAverageSalary
		}
	}

	if items, ok := raw["industry_analysis"].([]any); ok {
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			a.IndustryAnalysis = append(a.IndustryAnalysis, IndustrySegment{
				Name:     str(m, "name"),
				Trend:    str(m, "trend"),
				Growth:   str(m, "growth"),
				KeyRoles: strList(m["key_roles"]),
			})
		}
	}

	locs, ok := raw["top_locations"].([]any)
	if !ok {
		locs, _ = raw["geographic_hotspots"].([]any)
	}
	for _, item := range locs {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		openings, _ := number(m["job_openings"])
		salary, _ := number(m["average_salary"])
		a.TopLocations = append(a.TopLocations, LocationStat{
			Name:          str(m, "name", "location"),
			JobOpenings:   int(math.Round(openings)),
			AverageSalary: int(math.Round(salary)),
		})
	}

	a.MarketTrends = str(raw, "market_trends")
	a.GrowthRate = str(raw, "growth_rate")
	a.SalaryRange = salaryRange
	a.JobAvailability = str(raw, "job_availability")
	a.RequiredSkills = strList(raw["required_skills"])
	a.IndustryInsights = str(raw, "industry_insights")
	return finalizeMarket(a, careerField)
}

func finalizeMarket(a MarketAnalysis, careerField string) MarketAnalysis {
	a.OverallTrends.Trend = orDefault(a.OverallTrends.Trend, "Up")
	if a.OverallTrends.Description == "" {
		a.OverallTrends.Description = "The " + careerField + " industry is experiencing growth."
	}
	if a.AverageSalary <= 0 {
		a.AverageSalary = defaultAverageSalary
	}
	if a.IndustryAnalysis == nil {
		a.IndustryAnalysis = []IndustrySegment{}
	}
	for i := range a.IndustryAnalysis {
		if a.IndustryAnalysis[i].KeyRoles == nil {
			a.IndustryAnalysis[i].KeyRoles = []string{}
		}
	}
	if a.TopLocations == nil {
		a.TopLocations = []LocationStat{}
	}
	return a
}

func averageOfNumbers(s string) int {
	nums := digitRun.FindAllString(strings.ReplaceAll(s, ",", ""), -1)
	if len(nums) == 0 {
		return defaultAverageSalary
	}
	total := 0
	for _, n := range nums {
		v, err := strconv.Atoi(n)
		if err != nil {
			return defaultAverageSalary
		}
		total += v
	}
	return total / len(nums)
}

func firstNumber(s string) int {
	n := digitRun.FindString(strings.ReplaceAll(s, ",", ""))
	v, err := strconv.Atoi(n)
	if err != nil {
		return defaultAverageSalary
	}
	return v
}

// str returns the first non-blank string (or number rendered as text) found
// under keys.
func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func strList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return []string{strings.TrimSpace(s)}
		}
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "%"), 64)
		return f, err == nil
	}
	return 0, false
}

// union appends the entries of b missing from a, case-insensitively.
func union(a, b []string) []string {
	out := append([]string{}, a...)
	for _, s := range b {
		if !containsFold(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
