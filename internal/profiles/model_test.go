package profiles

import (
	"reflect"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":                LevelBeginner,
		"beginner":        LevelBeginner,
		"Entry Level":     LevelBeginner,
		"junior":          LevelBeginner,
		"Mid Level":       LevelMid,
		"intermediate":    LevelMid,
		"Senior Level":    LevelSenior,
		"expert":          LevelExpert,
		"Executive Level": LevelExpert,
		"Tech Lead":       LevelExpert,
		"something else":  LevelBeginner,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestContextOmitsIdentityAndBookkeeping(t *testing.T) {
	p := Profile{
		ID:              "u1",
		Email:           "a@example.com",
		Role:            RoleAdmin,
		Name:            "Ada",
		Skills:          []string{"Python", " ", "SQL"},
		ExperienceLevel: "Senior Level",
		ResumeKey:       "secret/key.pdf",
		CreatedAt:       time.Now(),
	}
	ctx := p.Context()

	if ctx.Name != "Ada" || ctx.Level != LevelSenior || ctx.ExperienceLabel != "Senior Level" {
		t.Fatalf("unexpected context: %+v", ctx)
	}
	if !reflect.DeepEqual(ctx.Skills, []string{"Python", "SQL"}) {
		t.Fatalf("unexpected skills: %v", ctx.Skills)
	}

	typ := reflect.TypeOf(ctx)
	for _, forbidden := range []string{"ID", "Email", "Role", "ResumeKey", "ResumeText", "CreatedAt", "UpdatedAt"} {
		if _, ok := typ.FieldByName(forbidden); ok {
			t.Fatalf("context must not expose %s", forbidden)
		}
	}

	ctx.Skills[0] = "changed"
	if p.Skills[0] != "Python" {
		t.Fatal("context must not alias profile slices")
	}
}
