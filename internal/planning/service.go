package planning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"career-backend/internal/notifications"
	"career-backend/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("invalid plan input")

const maxLearningPlanItems = 50

// Notifier receives a message when a milestone is completed.
type Notifier interface {
	Create(ctx context.Context, d notifications.Draft) (notifications.Notification, error)
}

type Service struct {
	Repo     Repo
	Notifier Notifier
	Now      func() time.Time
}

func NewService(repo Repo, notifier Notifier) *Service {
	return &Service{Repo: repo, Notifier: notifier, Now: time.Now}
}

// MilestoneInput is a new milestone. Priority defaults to medium.
type MilestoneInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Deadline    string `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

func (s *Service) Plan(ctx context.Context, userID string) (Plan, error) {
	return s.Repo.Get(ctx, userID, s.now())
}

func (s *Service) AddGoal(ctx context.Context, userID, text string) (Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Goal{}, fmt.Errorf("%w: goal is required", ErrInvalidInput)
	}
	g := Goal{ID: uuid.NewString(), Text: text, CreatedAt: s.now()}
	if err := s.Repo.AddGoal(ctx, userID, g); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// ToggleGoal flips the goal's completed flag.
func (s *Service) ToggleGoal(ctx context.Context, userID, goalID string) (Goal, error) {
	return s.Repo.ToggleGoal(ctx, userID, goalID, s.now())
}

func (s *Service) AddMilestone(ctx context.Context, userID string, in MilestoneInput) (Milestone, error) {
	m := Milestone{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Deadline:    strings.TrimSpace(in.Deadline),
		Priority:    in.Priority,
		CreatedAt:   s.now(),
	}
	if m.Title == "" {
		return Milestone{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if m.Deadline != "" {
		if _, err := time.Parse(DeadlineLayout, m.Deadline); err != nil {
			return Milestone{}, fmt.Errorf("%w: deadline must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	if m.Priority == "" {
		m.Priority = defaultPriority
	}
	if err := s.Repo.AddMilestone(ctx, userID, m); err != nil {
		return Milestone{}, err
	}
	return m, nil
}

// ToggleMilestone flips the milestone's completed flag. Completing it sends
// the owner a notification, best effort.
func (s *Service) ToggleMilestone(ctx context.Context, userID, milestoneID string) (Milestone, error) {
	m, err := s.Repo.ToggleMilestone(ctx, userID, milestoneID, s.now())
	if err != nil {
		return Milestone{}, err
	}
	if m.Completed && s.Notifier != nil {
		_, err := s.Notifier.Create(ctx, notifications.Draft{
			UserID:  userID,
			Title:   "Milestone completed",
			Message: fmt.Sprintf("You completed %q.", m.Title),
			Type:    notifications.TypeSuccess,
		})
		if err != nil {
			telemetry.Warn("planning.notify_failed", map[string]any{"user_id": userID, "milestone_id": m.ID, "error": err})
		}
	}
	return m, nil
}

// SetLearningPlan replaces the learning plan with the non-blank items.
func (s *Service) SetLearningPlan(ctx context.Context, userID string, items []string) (Plan, error) {
	clean := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			clean = append(clean, item)
		}
	}
	if len(clean) > maxLearningPlanItems {
		return Plan{}, fmt.Errorf("%w: at most %d learning plan items", ErrInvalidInput, maxLearningPlanItems)
	}
	if err := s.Repo.SetLearningPlan(ctx, userID, clean, s.now()); err != nil {
		return Plan{}, err
	}
	return s.Plan(ctx, userID)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
