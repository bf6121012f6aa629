package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"career-backend/internal/shared/util"
)

//go:embed seed.yaml
var seedYAML []byte

type SeedData struct {
	Careers []Career `yaml:"careers"`
	Skills  []Skill  `yaml:"skills"`
}

// LoadSeed parses the bundled catalog. Entries without an id get a slug of their title or name.
func LoadSeed() (SeedData, error) {
	return ParseSeed(seedYAML)
}

func ParseSeed(raw []byte) (SeedData, error) {
	var data SeedData
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return SeedData{}, fmt.Errorf("op=catalog.ParseSeed: %w", err)
	}
	for i := range data.Careers {
		if data.Careers[i].ID == "" {
			data.Careers[i].ID = util.Slugify(data.Careers[i].Title)
		}
	}
	for i := range data.Skills {
		if data.Skills[i].ID == "" {
			data.Skills[i].ID = util.Slugify(data.Skills[i].Name)
		}
	}
	return data, nil
}

// Seed upserts the bundled catalog into repo and returns how many rows were written.
func Seed(ctx context.Context, repo Repo) (int, error) {
	data, err := LoadSeed()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range data.Careers {
		if err := repo.UpsertCareer(ctx, c); err != nil {
			return n, fmt.Errorf("op=catalog.Seed career=%s: %w", c.ID, err)
		}
		n++
	}
	for _, s := range data.Skills {
		if err := repo.UpsertSkill(ctx, s); err != nil {
			return n, fmt.Errorf("op=catalog.Seed skill=%s: %w", s.ID, err)
		}
		n++
	}
	return n, nil
}
