package planning

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("plan item not found")

type Repo interface {
	// Get returns the user's plan, creating an empty one on first access.
	Get(ctx context.Context, userID string, now time.Time) (Plan, error)
	AddGoal(ctx context.Context, userID string, g Goal) error
	ToggleGoal(ctx context.Context, userID, goalID string, now time.Time) (Goal, error)
	AddMilestone(ctx context.Context, userID string, m Milestone) error
	ToggleMilestone(ctx context.Context, userID, milestoneID string, now time.Time) (Milestone, error)
	SetLearningPlan(ctx context.Context, userID string, items []string, now time.Time) error
}

type MemoryRepo struct {
	mu    sync.Mutex
	plans map[string]*Plan
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{plans: make(map[string]*Plan)}
}

// plan runs with r.mu held.
func (r *MemoryRepo) plan(userID string, now time.Time) *Plan {
	p, ok := r.plans[userID]
	if !ok {
		fresh := emptyPlan(userID, now)
		p = &fresh
		r.plans[userID] = p
	}
	return p
}

func (r *MemoryRepo) Get(ctx context.Context, userID string, now time.Time) (Plan, error) {
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := *r.plan(userID, now)
	p.Goals = append([]Goal{}, p.Goals...)
	p.Milestones = append([]Milestone{}, p.Milestones...)
	p.LearningPlan = append([]string{}, p.LearningPlan...)
	return p, nil
}

func (r *MemoryRepo) AddGoal(ctx context.Context, userID string, g Goal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.plan(userID, g.CreatedAt)
	p.Goals = append(p.Goals, g)
	p.UpdatedAt = g.CreatedAt
	return nil
}

func (r *MemoryRepo) ToggleGoal(ctx context.Context, userID, goalID string, now time.Time) (Goal, error) {
	if err := ctx.Err(); err != nil {
		return Goal{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[userID]
	if !ok {
		return Goal{}, ErrNotFound
	}
	for i := range p.Goals {
		if p.Goals[i].ID == goalID {
			p.Goals[i].Completed = !p.Goals[i].Completed
			p.UpdatedAt = now
			return p.Goals[i], nil
		}
	}
	return Goal{}, ErrNotFound
}

func (r *MemoryRepo) AddMilestone(ctx context.Context, userID string, m Milestone) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.plan(userID, m.CreatedAt)
	p.Milestones = append(p.Milestones, m)
	p.UpdatedAt = m.CreatedAt
	return nil
}

func (r *MemoryRepo) ToggleMilestone(ctx context.Context, userID, milestoneID string, now time.Time) (Milestone, error) {
	if err := ctx.Err(); err != nil {
		return Milestone{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[userID]
	if !ok {
		return Milestone{}, ErrNotFound
	}
	for i := range p.Milestones {
		if p.Milestones[i].ID == milestoneID {
			p.Milestones[i].Completed = !p.Milestones[i].Completed
			p.UpdatedAt = now
			return p.Milestones[i], nil
		}
	}
	return Milestone{}, ErrNotFound
}

func (r *MemoryRepo) SetLearningPlan(ctx context.Context, userID string, items []string, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.plan(userID, now)
	p.LearningPlan = append([]string{}, items...)
	p.UpdatedAt = now
	return nil
}
