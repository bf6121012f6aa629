package planning

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

const ensurePlanSQL = `
INSERT INTO career_plans (user_id, created_at, updated_at)
VALUES ($1, $2, $2)
ON CONFLICT (user_id) DO NOTHING`

const touchPlanSQL = `UPDATE career_plans SET updated_at = $2 WHERE user_id = $1`

func (r *PGRepo) Get(ctx context.Context, userID string, now time.Time) (Plan, error) {
	if _, err := r.DB.ExecContext(ctx, ensurePlanSQL, userID, now.UTC()); err != nil {
		return Plan{}, fmt.Errorf("ensure plan: %w", err)
	}

	p := emptyPlan(userID, now)
	var learning []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT learning_plan, created_at, updated_at FROM career_plans WHERE user_id = $1`, userID).
		Scan(&learning, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Plan{}, fmt.Errorf("load plan: %w", err)
	}
	if len(learning) > 0 {
		if err := json.Unmarshal(learning, &p.LearningPlan); err != nil || p.LearningPlan == nil {
			p.LearningPlan = []string{}
		}
	}

	goals, err := r.DB.QueryContext(ctx,
		`SELECT id, text, completed, created_at FROM career_goals WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return Plan{}, fmt.Errorf("query goals: %w", err)
	}
	defer goals.Close()
	for goals.Next() {
		var g Goal
		if err := goals.Scan(&g.ID, &g.Text, &g.Completed, &g.CreatedAt); err != nil {
			return Plan{}, fmt.Errorf("scan goal: %w", err)
		}
		p.Goals = append(p.Goals, g)
	}
	if err := goals.Err(); err != nil {
		return Plan{}, err
	}

	milestones, err := r.DB.QueryContext(ctx, `
SELECT id, title, description, deadline, priority, completed, created_at
FROM career_milestones WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return Plan{}, fmt.Errorf("query milestones: %w", err)
	}
	defer milestones.Close()
	for milestones.Next() {
		m, err := scanMilestone(milestones)
		if err != nil {
			return Plan{}, fmt.Errorf("scan milestone: %w", err)
		}
		p.Milestones = append(p.Milestones, m)
	}
	return p, milestones.Err()
}

func (r *PGRepo) AddGoal(ctx context.Context, userID string, g Goal) error {
	return r.withPlan(ctx, userID, g.CreatedAt, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO career_goals (id, user_id, text, completed, created_at) VALUES ($1, $2, $3, $4, $5)`,
			g.ID, userID, g.Text, g.Completed, g.CreatedAt)
		return err
	})
}

func (r *PGRepo) ToggleGoal(ctx context.Context, userID, goalID string, now time.Time) (Goal, error) {
	var g Goal
	err := r.withPlan(ctx, userID, now, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `
UPDATE career_goals SET completed = NOT completed
WHERE id = $1 AND user_id = $2
RETURNING id, text, completed, created_at`, goalID, userID).
			Scan(&g.ID, &g.Text, &g.Completed, &g.CreatedAt)
	})
	return g, notFound(err)
}

func (r *PGRepo) AddMilestone(ctx context.Context, userID string, m Milestone) error {
	return r.withPlan(ctx, userID, m.CreatedAt, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO career_milestones (id, user_id, title, description, deadline, priority, completed, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			m.ID, userID, m.Title, m.Description, nullableDate(m.Deadline), m.Priority, m.Completed, m.CreatedAt)
		return err
	})
}

func (r *PGRepo) ToggleMilestone(ctx context.Context, userID, milestoneID string, now time.Time) (Milestone, error) {
	var m Milestone
	err := r.withPlan(ctx, userID, now, func(tx *sql.Tx) error {
		var err error
		m, err = scanMilestone(tx.QueryRowContext(ctx, `
UPDATE career_milestones SET completed = NOT completed
WHERE id = $1 AND user_id = $2
RETURNING id, title, description, deadline, priority, completed, created_at`, milestoneID, userID))
		return err
	})
	return m, notFound(err)
}

func (r *PGRepo) SetLearningPlan(ctx context.Context, userID string, items []string, now time.Time) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.withPlan(ctx, userID, now, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE career_plans SET learning_plan = $2 WHERE user_id = $1`, userID, string(raw))
		return err
	})
}

// withPlan runs fn in a transaction after making sure the plan row exists,
// then bumps the plan's updated_at.
func (r *PGRepo) withPlan(ctx context.Context, userID string, now time.Time, fn func(*sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, ensurePlanSQL, userID, now.UTC()); err != nil {
		return fmt.Errorf("ensure plan: %w", err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, touchPlanSQL, userID, now.UTC()); err != nil {
		return fmt.Errorf("touch plan: %w", err)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMilestone(row scanner) (Milestone, error) {
	var m Milestone
	var deadline sql.NullTime
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &deadline, &m.Priority, &m.Completed, &m.CreatedAt); err != nil {
		return Milestone{}, err
	}
	if deadline.Valid {
		m.Deadline = deadline.Time.Format(DeadlineLayout)
	}
	return m, nil
}

func nullableDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
