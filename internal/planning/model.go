// Package planning keeps each user's career plan: goals to reach,
// milestones with deadlines, and a free-form learning plan.
package planning

import "time"

type Plan struct {
	UserID       string      `json:"user_id"`
	Goals        []Goal      `json:"goals"`
	Milestones   []Milestone `json:"milestones"`
	LearningPlan []string    `json:"learning_plan"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type Goal struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

type Milestone struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    string    `json:"deadline"`
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeadlineLayout is the date format milestones are stored with.
const DeadlineLayout = "2006-01-02"

const defaultPriority = "medium"

func emptyPlan(userID string, now time.Time) Plan {
	return Plan{
		UserID:       userID,
		Goals:        []Goal{},
		Milestones:   []Milestone{},
		LearningPlan: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
