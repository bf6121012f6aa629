package guidance

import (
	"strings"

	"career-backend/internal/profiles"
)

// FallbackChat returns one of several templated replies built from the
// profile. pick(n) chooses the template index in [0, n).
func FallbackChat(pc profiles.Context, pick func(n int) int) string {
	name := pc.Name
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	replies := []string{
		"Hello " + name + "! I'd be happy to help you with career guidance. Based on your skills in " +
			joinFirst(pc.Skills, 3, "various areas") + ", there are several career paths that might interest you.",
		"Hi " + name + "! Career development is a journey, and I'm here to help guide you. Your goals of " +
			joinFirst(pc.CareerGoals, 2, "career advancement") + " are achievable with the right planning.",
		"Hello " + name + "! I understand you're looking for career advice. With your background in " +
			joinFirst(pc.Skills, 2, "your field") + ", you have great potential for growth.",
		"Hi " + name + "! Career planning is crucial for success. Based on your interests and skills, I'd recommend focusing on areas that align with your goals.",
		"Hello " + name + "! I'm here to help you navigate your career path. What specific aspect of career development would you like to explore?",
	}
	i := 0
	if pick != nil {
		i = pick(len(replies))
	}
	if i < 0 || i >= len(replies) {
		i = 0
	}
	return replies[i]
}

func joinFirst(list []string, n int, empty string) string {
	if len(list) == 0 {
		return empty
	}
	if len(list) > n {
		list = list[:n]
	}
	return strings.Join(list, ", ")
}
