package catalog

import "context"

type Repo interface {
	// ListCareers returns up to limit careers, most popular first.
	ListCareers(ctx context.Context, limit int) ([]Career, error)
	SearchCareers(ctx context.Context, f Filter) ([]Career, error)
	ListSkills(ctx context.Context, f Filter) ([]Skill, error)
	UpsertCareer(ctx context.Context, c Career) error
	UpsertSkill(ctx context.Context, s Skill) error
	Count(ctx context.Context) (Counts, error)
}

// Counts is the size of the catalog.
type Counts struct {
	Careers int `json:"careers"`
	Skills  int `json:"skills"`
}
