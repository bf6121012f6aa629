package guidance

import "career-backend/internal/catalog"

const (
	maxRecommendations = 5
	catalogMatchScore  = 75
)

var builtinRecommendations = []Recommendation{
	{
		ID:              "fallback_1",
		Title:           "Software Developer",
		Description:     "Develop and maintain software applications. Work on creating innovative solutions using programming languages and frameworks.",
		Industry:        "Technology",
		ExperienceLevel: "Mid Level",
		SalaryRange:     "$70,000 - $120,000",
		WorkType:        "Full-time",
		RequiredSkills:  []string{"Programming", "Problem Solving", "Software Development"},
		MatchScore:      85,
	},
	{
		ID:              "fallback_2",
		Title:           "Data Scientist",
		Description:     "Analyze complex data to help organizations make data-driven decisions. Use statistical methods and machine learning algorithms.",
		Industry:        "Technology",
		ExperienceLevel: "Mid Level",
		SalaryRange:     "$90,000 - $150,000",
		WorkType:        "Full-time",
		RequiredSkills:  []string{"Data Analysis", "Machine Learning", "Python", "Statistics"},
		MatchScore:      80,
	},
	{
		ID:              "fallback_3",
		Title:           "DevOps Engineer",
		Description:     "Bridge the gap between development and operations. Automate deployment processes and manage cloud infrastructure.",
		Industry:        "Technology",
		ExperienceLevel: "Mid Level",
		SalaryRange:     "$85,000 - $140,000",
		WorkType:        "Full-time",
		RequiredSkills:  []string{"DevOps", "Cloud Computing", "Automation", "CI/CD"},
		MatchScore:      75,
	},
	{
		ID:              "fallback_4",
		Title:           "Full Stack Developer",
		Description:     "Work on both frontend and backend development. Build complete web applications from user interface to server logic.",
		Industry:        "Technology",
		ExperienceLevel: "Entry Level",
		SalaryRange:     "$60,000 - $100,000",
		WorkType:        "Full-time",
		RequiredSkills:  []string{"JavaScript", "React", "Node.js", "Database Management"},
		MatchScore:      82,
	},
	{
		ID:              "fallback_5",
		Title:           "Product Manager",
		Description:     "Lead product development from conception to launch. Work with cross-functional teams to deliver products that meet user needs.",
		Industry:        "Technology",
		ExperienceLevel: "Mid Level",
		SalaryRange:     "$95,000 - $160,000",
		WorkType:        "Full-time",
		RequiredSkills:  []string{"Product Management", "Communication", "Strategic Thinking", "Project Management"},
		MatchScore:      78,
	},
}

// FallbackRecommendations maps up to five catalog careers onto
// recommendations, or returns the built-in list when the catalog is empty.
// The result is never empty.
func FallbackRecommendations(careers []catalog.Career) []Recommendation {
	if len(careers) == 0 {
		out := make([]Recommendation, len(builtinRecommendations))
		for i, r := range builtinRecommendations {
			r.RequiredSkills = append([]string(nil), r.RequiredSkills...)
			out[i] = r
		}
		return finalizeRecommendations(out)
	}
	if len(careers) > maxRecommendations {
		careers = careers[:maxRecommendations]
	}
	out := make([]Recommendation, 0, len(careers))
	for _, c := range careers {
		out = append(out, Recommendation{
			ID:                    c.ID,
			Title:                 c.Title,
			Description:           c.Description,
			Industry:              c.Industry,
			ExperienceLevel:       c.ExperienceLevel,
			SalaryRange:           c.SalaryRange,
			WorkType:              c.WorkType,
			RequiredSkills:        append([]string(nil), c.RequiredSkills...),
			MatchScore:            catalogMatchScore,
			EducationRequirements: c.EducationRequirements,
		})
	}
	return finalizeRecommendations(out)
}
