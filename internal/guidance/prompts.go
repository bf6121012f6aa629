package guidance

import (
	"fmt"
	"strings"

	"career-backend/internal/profiles"
)

const (
	maxPromptGoals      = 500
	maxPromptBackground = 300
	maxHistoryTurns     = 5
)

func recommendationsPrompt(pc profiles.Context) string {
	var b strings.Builder
	b.WriteString("Based on the following user profile, provide 5 career recommendations with detailed explanations.\n\n")
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Skills: %s\n", listOr(pc.Skills, ""))
	fmt.Fprintf(&b, "- Interests: %s\n", listOr(pc.Interests, ""))
	fmt.Fprintf(&b, "- Career Goals: %s\n", listOr(pc.CareerGoals, ""))
	fmt.Fprintf(&b, "- Education Background: %s\n", clip(pc.Education, maxPromptBackground))
	fmt.Fprintf(&b, "- Experience Level: %s\n", pc.Level)
	fmt.Fprintf(&b, "- Preferred Industries: %s\n\n", listOr(pc.PreferredIndustries, ""))
	b.WriteString(`Respond with a JSON array only, in this format:
[
  {
    "career_name": "Career Name",
    "match_score": 85,
    "reason": "Why this career matches",
    "required_skills": ["skill1", "skill2"],
    "growth_potential": "high/medium/low",
    "salary_range": "range",
    "education_requirements": "requirements"
  }
]
`)
	return b.String()
}

func skillGapPrompt(pc profiles.Context, target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the skills gap for a user with the following profile who wants to pursue: %s\n\n", target)
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Current Skills: %s\n", listOr(pc.Skills, "None listed"))
	fmt.Fprintf(&b, "- Career Goals: %s\n", listOr(pc.CareerGoals, "Not specified"))
	fmt.Fprintf(&b, "- Goals Description: %s\n", textOr(clip(pc.Goals, maxPromptGoals), "Not provided"))
	fmt.Fprintf(&b, "- Experience Level: %s\n", pc.Level)
	fmt.Fprintf(&b, "- Interests: %s\n", listOr(pc.Interests, "Not specified"))
	fmt.Fprintf(&b, "- Preferred Industries: %s\n", listOr(pc.PreferredIndustries, "Not specified"))
	fmt.Fprintf(&b, "- Education Background: %s\n", textOr(clip(pc.Education, maxPromptBackground), "Not provided"))
	fmt.Fprintf(&b, "- Work Experience: %s\n\n", textOr(clip(pc.Experience, maxPromptBackground), "Not provided"))
	fmt.Fprintf(&b, "Based on this profile and target career %q, provide a skills gap analysis:\n", target)
	b.WriteString(`1. Identify missing skills needed for this career path
2. Identify which existing skills are relevant to the target career
3. Provide learning resources and project ideas for each missing skill
4. Assign priority levels (high/medium/low) based on career relevance
5. Estimate time to learn each skill for this experience level

Respond with a JSON object only:
{
  "missing_skills": [
    {
      "skill_name": "skill name",
      "priority": "high/medium/low",
      "time_to_learn": "estimated time (e.g., 2-3 months)",
      "description": "why this skill is important",
      "learning_resources": ["resource1", "resource2"],
      "projects": ["project idea 1", "project idea 2"]
    }
  ],
  "existing_skills_match": ["skill1", "skill2"],
  "required_skills": ["all required skills for the career"],
  "overall_gap_score": 75
}
`)
	return b.String()
}

func marketPrompt(q MarketQuery) string {
	var b strings.Builder
	b.WriteString("Provide a personalized job market analysis based on the following.\n\n")
	fmt.Fprintf(&b, "Career Field/Industry: %s\n", q.CareerField)
	if pc := q.Profile; pc != nil {
		b.WriteString("User Profile Context:\n")
		fmt.Fprintf(&b, "- Skills: %s\n", listOr(pc.Skills, "Not specified"))
		fmt.Fprintf(&b, "- Interests: %s\n", listOr(pc.Interests, "Not specified"))
		fmt.Fprintf(&b, "- Preferred Industries: %s\n", listOr(pc.PreferredIndustries, "Not specified"))
		fmt.Fprintf(&b, "- Experience Level: %s\n", pc.Level)
	}
	if q.Industry != "" {
		fmt.Fprintf(&b, "- Filtered Industry: %s\n", q.Industry)
	}
	if q.Location != "" {
		fmt.Fprintf(&b, "- Filtered Location: %s\n", q.Location)
	}
	if q.ExperienceLevel != "" {
		fmt.Fprintf(&b, "- Filtered Experience Level: %s\n", q.ExperienceLevel)
	}
	b.WriteString(`
Cover current trends, growth outlook, salary ranges adjusted for experience, demand,
required skills, top locations and industry-specific insights.

Respond with a JSON object only:
{
  "market_trends": "trend description",
  "growth_rate": "percentage or growth indicator",
  "salary_range": "$60,000 - $120,000",
  "average_salary": 85000,
  "job_availability": "high/medium/low",
  "required_skills": ["skill1", "skill2"],
  "geographic_hotspots": [{"name": "location", "job_openings": 5000, "average_salary": 95000}],
  "industry_insights": "insights about the industry",
  "industry_analysis": [{"name": "segment", "trend": "Up/Down/Stable", "growth": "percentage", "key_roles": ["role"]}],
  "overall_trends": {"trend": "Up/Down/Stable", "description": "market overview"}
}
`)
	return b.String()
}

func chatPrompt(pc profiles.Context, req ChatRequest) string {
	var b strings.Builder
	b.WriteString("You are a career counseling assistant. Respond to the user's question about career guidance.\n\n")
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", textOr(pc.Name, "Unknown"))
	fmt.Fprintf(&b, "- Skills: %s\n", listOr(pc.Skills, ""))
	fmt.Fprintf(&b, "- Interests: %s\n", listOr(pc.Interests, ""))
	fmt.Fprintf(&b, "- Career Goals: %s\n", listOr(pc.CareerGoals, ""))
	fmt.Fprintf(&b, "- Experience Level: %s\n", pc.Level)
	fmt.Fprintf(&b, "- Preferred Industries: %s\n", listOr(pc.PreferredIndustries, ""))
	if c := strings.TrimSpace(req.Context); c != "" {
		fmt.Fprintf(&b, "\nContext: %s\n", c)
	}
	history := req.ConversationHistory
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	if len(history) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, turn := range history {
			writeTurn(&b, turn)
		}
	}
	fmt.Fprintf(&b, "\nUser Question: %s\n\n", req.Message)
	b.WriteString("Provide helpful, accurate and personalized career advice. Keep the response concise but informative.\n")
	return b.String()
}

func writeTurn(b *strings.Builder, t ChatTurn) {
	switch {
	case t.Content != "":
		role := textOr(t.Role, "user")
		fmt.Fprintf(b, "%s: %s\n", role, t.Content)
	default:
		if t.Message != "" {
			fmt.Fprintf(b, "user: %s\n", t.Message)
		}
		if t.Response != "" {
			fmt.Fprintf(b, "assistant: %s\n", t.Response)
		}
	}
}

func listOr(list []string, empty string) string {
	if len(list) == 0 {
		return empty
	}
	return strings.Join(list, ", ")
}

func textOr(s, empty string) string {
	if strings.TrimSpace(s) == "" {
		return empty
	}
	return s
}

func clip(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}
