package guidance

import (
	"math"
	"strings"

	"career-backend/internal/profiles"
)

const (
	defaultCareerField     = "Technology"
	defaultBaseSalary      = 75000
	customLocationOpenings = 5000
)

var baseSalaries = map[string]int{
	"entry level":     50000,
	"mid level":       75000,
	"senior level":    110000,
	"executive level": 150000,
}

var locationMultipliers = map[string]float64{
	"san francisco": 1.5,
	"new york":      1.4,
	"seattle":       1.3,
	"boston":        1.2,
	"austin":        1.1,
	"chicago":       1.1,
	"denver":        1.05,
	"atlanta":       1.0,
	"philadelphia":  1.0,
	"remote":        0.95,
}

var defaultLocations = []struct {
	name     string
	openings int
}{
	{"San Francisco", 15000},
	{"New York", 12000},
	{"Seattle", 8000},
	{"Boston", 6000},
	{"Remote", 25000},
}

var industrySegments = map[string][]IndustrySegment{
	"technology": {
		{Name: "Software Development", Trend: "Up", Growth: "15%", KeyRoles: []string{"Software Engineer", "Full Stack Developer", "DevOps Engineer"}},
		{Name: "Data Science", Trend: "Up", Growth: "20%", KeyRoles: []string{"Data Scientist", "Data Analyst", "ML Engineer"}},
		{Name: "Cybersecurity", Trend: "Up", Growth: "25%", KeyRoles: []string{"Security Analyst", "Penetration Tester", "Security Architect"}},
	},
	"healthcare": {
		{Name: "Healthcare IT", Trend: "Up", Growth: "18%", KeyRoles: []string{"Health Informatics Specialist", "Clinical Analyst", "Health Data Analyst"}},
		{Name: "Nursing", Trend: "Up", Growth: "12%", KeyRoles: []string{"Registered Nurse", "Nurse Practitioner", "Clinical Nurse Specialist"}},
		{Name: "Medical Research", Trend: "Up", Growth: "10%", KeyRoles: []string{"Research Scientist", "Clinical Researcher", "Biostatistician"}},
	},
	"finance": {
		{Name: "FinTech", Trend: "Up", Growth: "22%", KeyRoles: []string{"Financial Analyst", "Quantitative Analyst", "Risk Analyst"}},
		{Name: "Investment Banking", Trend: "Stable", Growth: "5%", KeyRoles: []string{"Investment Banker", "Financial Advisor", "Portfolio Manager"}},
		{Name: "Accounting", Trend: "Up", Growth: "8%", KeyRoles: []string{"CPA", "Tax Specialist", "Auditor"}},
	},
}

var levelLabels = map[profiles.Level]string{
	profiles.LevelBeginner: "Entry Level",
	profiles.LevelMid:      "Mid Level",
	profiles.LevelSenior:   "Senior Level",
	profiles.LevelExpert:   "Executive Level",
}

// ResolveCareerField picks the field a market analysis covers: the explicit
// value, then the profile's first career goal, the first sentence of its
// goals, its first preferred industry, then the industry filter.
func ResolveCareerField(explicit, industry string, pc *profiles.Context) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	if pc != nil {
		if len(pc.CareerGoals) > 0 {
			return pc.CareerGoals[0]
		}
		if s := goalFragment(pc.Goals); s != "" {
			return s
		}
		if len(pc.PreferredIndustries) > 0 {
			return pc.PreferredIndustries[0]
		}
	}
	if s := strings.TrimSpace(industry); s != "" {
		return s
	}
	return defaultCareerField
}

// Resolved fills CareerField, ExperienceLevel and Location from the profile
// where the request left them blank.
func (q MarketQuery) Resolved() MarketQuery {
	q.Industry = strings.TrimSpace(q.Industry)
	q.Location = strings.TrimSpace(q.Location)
	q.ExperienceLevel = strings.TrimSpace(q.ExperienceLevel)
	q.CareerField = ResolveCareerField(q.CareerField, q.Industry, q.Profile)
	if q.Profile != nil {
		if q.ExperienceLevel == "" && strings.TrimSpace(q.Profile.ExperienceLabel) != "" {
			q.ExperienceLevel = levelLabels[q.Profile.Level]
		}
		if q.Location == "" {
			q.Location = strings.TrimSpace(q.Profile.Location)
		}
	}
	return q
}

// FallbackMarketAnalysis builds a market analysis from static tables. q is
// expected to be resolved already. The function is pure.
func FallbackMarketAnalysis(q MarketQuery) MarketAnalysis {
	base := baseSalary(q.ExperienceLevel)
	selected := q.Industry
	if selected == "" {
		selected = q.CareerField
	}

	segments, ok := industrySegments[strings.ToLower(strings.TrimSpace(selected))]
	if !ok {
		segments = industrySegments["technology"]
	}

	locations := make([]LocationStat, len(defaultLocations))
	for i, l := range defaultLocations {
		locations[i] = LocationStat{
			Name:          l.name,
			JobOpenings:   l.openings,
			AverageSalary: scaleSalary(base, locationMultipliers[strings.ToLower(l.name)]),
		}
	}

	avg := base
	var top []LocationStat
	switch {
	case q.Location == "":
		top = locations[:3]
	default:
		idx := -1
		for i, l := range locations {
			if strings.EqualFold(l.Name, q.Location) {
				idx = i
				break
			}
		}
		if idx >= 0 {
			top = append(top, locations[idx])
			for i, l := range locations {
				if i != idx && len(top) < 3 {
					top = append(top, l)
				}
			}
		} else {
			top = []LocationStat{
				{Name: q.Location, JobOpenings: customLocationOpenings, AverageSalary: base},
				locations[0],
				locations[1],
			}
		}
		if mult, ok := locationMultipliers[strings.ToLower(q.Location)]; ok {
			avg = scaleSalary(base, mult)
		}
	}

	parts := []string{"The " + selected + " industry is experiencing strong growth"}
	if q.Location != "" {
		parts = append(parts, "in "+q.Location)
	}
	if q.ExperienceLevel != "" {
		parts = append(parts, "with "+q.ExperienceLevel+" positions")
	}
	parts = append(parts, "with increasing demand for skilled professionals.")

	return finalizeMarket(MarketAnalysis{
		OverallTrends:    OverallTrends{Trend: "Up", Description: strings.Join(parts, " ")},
		AverageSalary:    avg,
		IndustryAnalysis: cloneSegments(segments),
		TopLocations:     append([]LocationStat(nil), top...),
	}, selected)
}

func baseSalary(level string) int {
	if v, ok := baseSalaries[strings.ToLower(strings.TrimSpace(level))]; ok {
		return v
	}
	return defaultBaseSalary
}

func scaleSalary(base int, mult float64) int {
	if mult == 0 {
		mult = 1
	}
	return int(math.Round(float64(base) * mult))
}

func cloneSegments(in []IndustrySegment) []IndustrySegment {
	out := make([]IndustrySegment, len(in))
	for i, s := range in {
		s.KeyRoles = append([]string(nil), s.KeyRoles...)
		out[i] = s
	}
	return out
}
