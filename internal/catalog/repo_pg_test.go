package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var careerCols = []string{
	"id", "title", "description", "industry", "experience_level", "salary_range", "work_type",
	"required_skills", "preferred_skills", "education_requirements", "growth_prospects", "growth_rate", "popularity",
	"created_at", "updated_at",
}

func TestPGRepoSearchCareers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(careerCols).AddRow(
		"data-scientist", "Data Scientist", "Analyze data", "Technology", "Mid Level", "$100k-$150k", "Full-time",
		[]byte(`["Python","SQL"]`), []byte(`["R"]`), nil, "Rapid", 20.0, 90, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM careers WHERE \\(title ILIKE \\$1 (.+)\\) AND lower\\(industry\\) = lower\\(\\$2\\) ORDER BY popularity DESC, title ASC LIMIT \\$3").
		WithArgs("%data%", "Technology", 5).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.SearchCareers(context.Background(), Filter{Query: "data", Industry: "Technology", Limit: 5})
	if err != nil {
		t.Fatalf("SearchCareers: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 career, got %d", len(got))
	}
	if got[0].Title != "Data Scientist" || len(got[0].RequiredSkills) != 2 || got[0].EducationRequirements != "" {
		t.Fatalf("unexpected career: %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoListCareersDefaultsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM careers ORDER BY popularity DESC, title ASC LIMIT \\$1").
		WithArgs(DefaultLimit).
		WillReturnRows(sqlmock.NewRows(careerCols))

	repo := &PGRepo{DB: db}
	got, err := repo.ListCareers(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListCareers: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoUpsertSkill(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO skills").
		WithArgs("python", "Python", "", "Programming Languages", "Intermediate", "High", `["Data Scientist"]`, `[]`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	err = repo.UpsertSkill(context.Background(), Skill{
		ID:              "python",
		Name:            "Python",
		Category:        "Programming Languages",
		DifficultyLevel: "Intermediate",
		DemandLevel:     "High",
		RelatedCareers:  []string{"Data Scientist"},
	})
	if err != nil {
		t.Fatalf("UpsertSkill: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT \\(SELECT count\\(\\*\\) FROM careers\\), \\(SELECT count\\(\\*\\) FROM skills\\)").
		WillReturnRows(sqlmock.NewRows([]string{"careers", "skills"}).AddRow(12, 40))

	repo := &PGRepo{DB: db}
	got, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if got != (Counts{Careers: 12, Skills: 40}) {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
