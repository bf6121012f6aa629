package guidance

import (
	"fmt"
	"strings"
	"unicode"

	"career-backend/internal/profiles"
)

const (
	defaultTargetCareer   = "Software Developer"
	maxLearningRecs       = 5
	goalFragmentMaxLength = 50
)

// skillTable maps career-title keywords to the skills the role needs.
// Entries are ordered from specific to generic and the first match wins.
// A keyword ending in a space must match a whole word.
var skillTable = []struct {
	keywords []string
	skills   []string
}{
	{[]string{"data scientist", "data science"}, []string{"Python", "Statistics", "Machine Learning", "SQL", "Data Visualization", "Pandas", "Deep Learning"}},
	{[]string{"data analyst", "analytics"}, []string{"SQL", "Excel", "Python", "Data Visualization", "Statistics", "Tableau"}},
	{[]string{"machine learning", "ml ", "ai ", "artificial intelligence"}, []string{"Python", "Machine Learning", "Deep Learning", "TensorFlow", "Statistics", "MLOps", "SQL"}},
	{[]string{"devops", "site reliability", "sre "}, []string{"Linux", "Docker", "Kubernetes", "CI/CD", "Cloud Computing", "Infrastructure as Code", "Scripting"}},
	{[]string{"full stack", "fullstack", "full-stack"}, []string{"JavaScript", "React", "Node.js", "SQL", "REST APIs", "Git", "System Design"}},
	{[]string{"frontend", "front end", "front-end", "web developer"}, []string{"JavaScript", "TypeScript", "React", "HTML", "CSS", "Responsive Design", "Git"}},
	{[]string{"backend", "back end", "back-end"}, []string{"Python", "Java", "SQL", "REST APIs", "System Design", "Docker", "Git"}},
	{[]string{"product manager", "product owner", "product management"}, []string{"Product Management", "Communication", "Strategic Planning", "Data Analysis", "User Research", "Agile"}},
	{[]string{"designer", "design", "ux ", "ui "}, []string{"User Research", "Wireframing", "Prototyping", "Figma", "Design Thinking", "Usability Testing"}},
	{[]string{"cyber", "security"}, []string{"Network Security", "Linux", "Risk Assessment", "Incident Response", "Cryptography", "Python"}},
	{[]string{"cloud"}, []string{"AWS", "Cloud Computing", "Linux", "Networking", "Infrastructure as Code", "Kubernetes"}},
	{[]string{"developer", "engineer", "software", "programmer", "programming"}, []string{"Python", "JavaScript", "Git", "SQL", "Data Structures", "Problem Solving", "System Design"}},
	{[]string{"manager", "management", "leadership"}, []string{"Leadership", "Project Management", "Communication", "Strategic Planning", "Budgeting", "Team Building"}},
	{[]string{"market"}, []string{"Digital Marketing", "SEO", "Content Marketing", "Analytics", "Social Media Marketing", "Communication"}},
}

var genericSkills = []string{"Python", "JavaScript", "SQL", "Git", "Problem Solving", "Communication", "Teamwork", "Project Management"}

var advancedSkills = []string{"System Design", "Kubernetes", "Deep Learning", "MLOps", "Infrastructure as Code", "Technical Leadership", "Strategic Planning"}

var seniorSkills = []string{"System Design", "Technical Leadership", "Mentoring"}

var (
	learningResources = []string{"Online courses", "Documentation", "Practice projects", "Tutorials"}
	projectTemplates  = []string{"Build a %s project", "Practice %s exercises", "Create a %s portfolio"}
)

// ResolveTargetCareer picks the career a skill-gap analysis is measured
// against: the explicit value, then the first career goal, then the first
// sentence of the free-text goals, then the first preferred industry.
func ResolveTargetCareer(explicit string, pc profiles.Context) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	if len(pc.CareerGoals) > 0 {
		return pc.CareerGoals[0]
	}
	if s := goalFragment(pc.Goals); s != "" {
		return s
	}
	if len(pc.PreferredIndustries) > 0 {
		return pc.PreferredIndustries[0]
	}
	return defaultTargetCareer
}

// FallbackSkillGap compares the profile against the skills the target
// career needs. It performs no I/O and is deterministic.
func FallbackSkillGap(pc profiles.Context, target string) SkillGapAnalysis {
	required := requiredSkillsFor(target, pc.Interests)
	switch pc.Level {
	case profiles.LevelBeginner:
		required = without(required, advancedSkills)
	case profiles.LevelSenior, profiles.LevelExpert:
		required = withAll(required, seniorSkills)
	}

	missing := without(required, pc.Skills)
	recs := make([]LearningRecommendation, 0, maxLearningRecs)
	for _, skill := range missing {
		if len(recs) == maxLearningRecs {
			break
		}
		recs = append(recs, learningRecommendation(skill, target))
	}

	return SkillGapAnalysis{
		UserSkills:              append([]string{}, pc.Skills...),
		RequiredSkillsForGoals:  required,
		SkillsGap:               missing,
		LearningRecommendations: recs,
	}
}

func requiredSkillsFor(target string, interests []string) []string {
	if skills, ok := matchSkills(target); ok {
		return skills
	}
	for _, interest := range interests {
		if skills, ok := matchSkills(interest); ok {
			return skills
		}
	}
	return append([]string(nil), genericSkills...)
}

func matchSkills(title string) ([]string, bool) {
	padded := " " + normalizeTitle(title) + " "
	if strings.TrimSpace(padded) == "" {
		return nil, false
	}
	for _, row := range skillTable {
		for _, kw := range row.keywords {
			if strings.Contains(padded, " "+kw) {
				return append([]string(nil), row.skills...), true
			}
		}
	}
	return nil, false
}

// normalizeTitle lowercases s and collapses punctuation other than hyphens
// to single spaces.
func normalizeTitle(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

func learningRecommendation(skill, target string) LearningRecommendation {
	projects := make([]string, len(projectTemplates))
	for i, tmpl := range projectTemplates {
		projects[i] = fmt.Sprintf(tmpl, skill)
	}
	return LearningRecommendation{
		Skill:       skill,
		Description: fmt.Sprintf("Learn %s to improve your career prospects in %s", skill, target),
		Resources:   append([]string(nil), learningResources...),
		Projects:    projects,
	}
}

func goalFragment(goals string) string {
	first, _, _ := strings.Cut(goals, ".")
	first = strings.TrimSpace(first)
	if r := []rune(first); len(r) > goalFragmentMaxLength {
		first = strings.TrimSpace(string(r[:goalFragmentMaxLength]))
	}
	return first
}

// without returns the entries of list not present in drop, compared
// case-insensitively, preserving order.
func without(list, drop []string) []string {
	skip := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		skip[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if _, ok := skip[strings.ToLower(strings.TrimSpace(item))]; ok {
			continue
		}
		out = append(out, item)
	}
	return out
}

func withAll(list, add []string) []string {
	out := append([]string(nil), list...)
	for _, a := range add {
		if !containsFold(out, a) {
			out = append(out, a)
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
