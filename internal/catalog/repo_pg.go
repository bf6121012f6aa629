package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

type PGRepo struct {
	DB *sql.DB
}

const careerColumns = `id, title, description, industry, experience_level, salary_range, work_type,
  required_skills, preferred_skills, education_requirements, growth_prospects, growth_rate, popularity, created_at, updated_at`

const skillColumns = `id, name, description, category, difficulty_level, demand_level, related_careers,
  learning_resources, created_at, updated_at`

func (r *PGRepo) Count(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.DB.QueryRowContext(ctx, `SELECT (SELECT count(*) FROM careers), (SELECT count(*) FROM skills)`).
		Scan(&c.Careers, &c.Skills)
	if err != nil {
		return Counts{}, fmt.Errorf("count catalog: %w", err)
	}
	return c, nil
}

func (r *PGRepo) ListCareers(ctx context.Context, limit int) ([]Career, error) {
	return r.SearchCareers(ctx, Filter{Limit: limit})
}

func (r *PGRepo) SearchCareers(ctx context.Context, f Filter) ([]Career, error) {
	var where []string
	var args []any
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR industry ILIKE $%d)", len(args), len(args), len(args)))
	}
	if ind := strings.TrimSpace(f.Industry); ind != "" {
		args = append(args, ind)
		where = append(where, fmt.Sprintf("lower(industry) = lower($%d)", len(args)))
	}
	args = append(args, f.limit())
	query := `SELECT ` + careerColumns + ` FROM careers`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY popularity DESC, title ASC LIMIT $%d`, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query careers: %w", err)
	}
	defer rows.Close()

	out := []Career{}
	for rows.Next() {
		var c Career
		var description, level, salary, workType, education, prospects sql.NullString
		var required, preferred []byte
		if err := rows.Scan(&c.ID, &c.Title, &description, &c.Industry, &level, &salary, &workType,
			&required, &preferred, &education, &prospects, &c.GrowthRate, &c.Popularity, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan career: %w", err)
		}
		c.Description = description.String
		c.ExperienceLevel = level.String
		c.SalaryRange = salary.String
		c.WorkType = workType.String
		c.EducationRequirements = education.String
		c.GrowthProspects = prospects.String
		c.RequiredSkills = decodeList(required)
		c.PreferredSkills = decodeList(preferred)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) ListSkills(ctx context.Context, f Filter) ([]Skill, error) {
	var where []string
	var args []any
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if cat := strings.TrimSpace(f.Category); cat != "" {
		args = append(args, cat)
		where = append(where, fmt.Sprintf("lower(category) = lower($%d)", len(args)))
	}
	args = append(args, f.limit())
	query := `SELECT ` + skillColumns + ` FROM skills`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY name ASC LIMIT $%d`, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	out := []Skill{}
	for rows.Next() {
		var s Skill
		var description, category, difficulty, demand sql.NullString
		var related, resources []byte
		if err := rows.Scan(&s.ID, &s.Name, &description, &category, &difficulty, &demand,
			&related, &resources, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		s.Description = description.String
		s.Category = category.String
		s.DifficultyLevel = difficulty.String
		s.DemandLevel = demand.String
		s.RelatedCareers = decodeList(related)
		s.LearningResources = decodeList(resources)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpsertCareer(ctx context.Context, c Career) error {
	const query = `
INSERT INTO careers (id, title, description, industry, experience_level, salary_range, work_type,
  required_skills, preferred_skills, education_requirements, growth_prospects, growth_rate, popularity, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  description = EXCLUDED.description,
  industry = EXCLUDED.industry,
  experience_level = EXCLUDED.experience_level,
  salary_range = EXCLUDED.salary_range,
  work_type = EXCLUDED.work_type,
  required_skills = EXCLUDED.required_skills,
  preferred_skills = EXCLUDED.preferred_skills,
  education_requirements = EXCLUDED.education_requirements,
  growth_prospects = EXCLUDED.growth_prospects,
  growth_rate = EXCLUDED.growth_rate,
  popularity = EXCLUDED.popularity,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.Title, c.Description, c.Industry, c.ExperienceLevel, c.SalaryRange, c.WorkType,
		jsonList(c.RequiredSkills), jsonList(c.PreferredSkills), c.EducationRequirements, c.GrowthProspects,
		c.GrowthRate, c.Popularity,
	)
	return err
}

func (r *PGRepo) UpsertSkill(ctx context.Context, s Skill) error {
	const query = `
INSERT INTO skills (id, name, description, category, difficulty_level, demand_level, related_careers,
  learning_resources, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  description = EXCLUDED.description,
  category = EXCLUDED.category,
  difficulty_level = EXCLUDED.difficulty_level,
  demand_level = EXCLUDED.demand_level,
  related_careers = EXCLUDED.related_careers,
  learning_resources = EXCLUDED.learning_resources,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.Name, s.Description, s.Category, s.DifficultyLevel, s.DemandLevel,
		jsonList(s.RelatedCareers), jsonList(s.LearningResources),
	)
	return err
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
