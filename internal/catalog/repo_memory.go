package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	careers map[string]Career
	skills  map[string]Skill
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		careers: make(map[string]Career),
		skills:  make(map[string]Skill),
	}
}

func (r *MemoryRepo) Count(ctx context.Context) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Counts{Careers: len(r.careers), Skills: len(r.skills)}, nil
}

func (r *MemoryRepo) ListCareers(ctx context.Context, limit int) ([]Career, error) {
	return r.SearchCareers(ctx, Filter{Limit: limit})
}

func (r *MemoryRepo) SearchCareers(ctx context.Context, f Filter) ([]Career, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	r.mu.RLock()
	out := make([]Career, 0, len(r.careers))
	for _, c := range r.careers {
		if f.Industry != "" && !strings.EqualFold(c.Industry, f.Industry) {
			continue
		}
		if q != "" && !careerMatches(c, q) {
			continue
		}
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return out[i].Title < out[j].Title
	})
	if limit := f.limit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) ListSkills(ctx context.Context, f Filter) ([]Skill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	r.mu.RLock()
	out := make([]Skill, 0, len(r.skills))
	for _, s := range r.skills {
		if f.Category != "" && !strings.EqualFold(s.Category, f.Category) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(s.Name+" "+s.Description), q) {
			continue
		}
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit := f.limit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) UpsertCareer(ctx context.Context, c Career) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("career id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.careers[c.ID]; ok {
		c.CreatedAt = existing.CreatedAt
	} else {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.careers[c.ID] = c
	return nil
}

func (r *MemoryRepo) UpsertSkill(ctx context.Context, s Skill) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("skill id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.skills[s.ID]; ok {
		s.CreatedAt = existing.CreatedAt
	} else {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	r.skills[s.ID] = s
	return nil
}

func careerMatches(c Career, q string) bool {
	hay := strings.ToLower(strings.Join([]string{c.Title, c.Description, c.Industry, strings.Join(c.RequiredSkills, " ")}, " "))
	return strings.Contains(hay, q)
}
