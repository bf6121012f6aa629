package profiles

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

const profileColumns = `id, email, name, role, skills, interests, career_goals, goals, experience_level,
  preferred_industries, education, experience, location, resume_key, resume_text, created_at, updated_at`

func (r *PGRepo) Upsert(ctx context.Context, p Profile) error {
	const query = `
INSERT INTO profiles (id, email, name, role, skills, interests, career_goals, goals, experience_level,
  preferred_industries, education, experience, location, resume_key, resume_text, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  name = EXCLUDED.name,
  role = EXCLUDED.role,
  skills = EXCLUDED.skills,
  interests = EXCLUDED.interests,
  career_goals = EXCLUDED.career_goals,
  goals = EXCLUDED.goals,
  experience_level = EXCLUDED.experience_level,
  preferred_industries = EXCLUDED.preferred_industries,
  education = EXCLUDED.education,
  experience = EXCLUDED.experience,
  location = EXCLUDED.location,
  resume_key = EXCLUDED.resume_key,
  resume_text = EXCLUDED.resume_text,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.Email,
		nullableString(p.Name),
		p.Role,
		jsonList(p.Skills),
		jsonList(p.Interests),
		jsonList(p.CareerGoals),
		nullableString(p.Goals),
		nullableString(p.ExperienceLevel),
		jsonList(p.PreferredIndustries),
		nullableString(p.Education),
		nullableString(p.Experience),
		nullableString(p.Location),
		nullableString(p.ResumeKey),
		nullableString(p.ResumeText),
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, id string) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 LIMIT 1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email) = lower($1) LIMIT 1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) List(ctx context.Context, limit int) ([]Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC, id LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	out := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return expectOneRow(res)
}

func (r *PGRepo) RecordLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE profiles SET last_login_at = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return expectOneRow(res)
}

func (r *PGRepo) Stats(ctx context.Context, activeSince time.Time) (Stats, error) {
	const query = `
SELECT role, count(*), count(*) FILTER (WHERE last_login_at >= $1)
FROM profiles
GROUP BY role`
	rows, err := r.DB.QueryContext(ctx, query, activeSince.UTC())
	if err != nil {
		return Stats{}, fmt.Errorf("query profile stats: %w", err)
	}
	defer rows.Close()

	st := Stats{Roles: map[string]int{}}
	for rows.Next() {
		var role string
		var total, active int
		if err := rows.Scan(&role, &total, &active); err != nil {
			return Stats{}, fmt.Errorf("scan profile stats: %w", err)
		}
		st.Roles[role] = total
		st.Total += total
		st.Active += active
	}
	return st, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	var name, goals, level, education, experience, location, resumeKey, resumeText sql.NullString
	var skills, interests, careerGoals, industries []byte
	var updatedAt sql.NullTime
	err := row.Scan(
		&p.ID,
		&p.Email,
		&name,
		&p.Role,
		&skills,
		&interests,
		&careerGoals,
		&goals,
		&level,
		&industries,
		&education,
		&experience,
		&location,
		&resumeKey,
		&resumeText,
		&p.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.Name = name.String
	p.Goals = goals.String
	p.ExperienceLevel = level.String
	p.Education = education.String
	p.Experience = experience.String
	p.Location = location.String
	p.ResumeKey = resumeKey.String
	p.ResumeText = resumeText.String
	p.Skills = decodeList(skills)
	p.Interests = decodeList(interests)
	p.CareerGoals = decodeList(careerGoals)
	p.PreferredIndustries = decodeList(industries)
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	} else {
		p.UpdatedAt = p.CreatedAt
	}
	return p, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func jsonList(values []string) string {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func decodeList(raw []byte) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}
