package profiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"career-backend/internal/shared/storage/object"
	"career-backend/internal/shared/telemetry"
)

const (
	maxResumeTextChars      = 20000
	maxExperienceFromResume = 2000
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrLastAdmin    = errors.New("at least one admin must remain")
)

// TextExtractor turns an uploaded document into plain text.
type TextExtractor func(ctx context.Context, data []byte, mimeType, fileName string) (string, error)

type Service struct {
	Repo    Repo
	Store   object.Store
	Extract TextExtractor
	Now     func() time.Time
}

func NewService(repo Repo, store object.Store, extract TextExtractor) *Service {
	return &Service{Repo: repo, Store: store, Extract: extract, Now: time.Now}
}

// Patch carries a partial profile update. Nil fields are left untouched;
// identity, role and timestamps cannot be changed through it.
type Patch struct {
	Name                *string  `json:"name" binding:"omitempty,max=120"`
	Skills              []string `json:"skills" binding:"omitempty,max=100,dive,max=80"`
	Interests           []string `json:"interests" binding:"omitempty,max=50,dive,max=80"`
	CareerGoals         []string `json:"career_goals" binding:"omitempty,max=20,dive,max=200"`
	Goals               *string  `json:"goals" binding:"omitempty,max=2000"`
	ExperienceLevel     *string  `json:"experience_level" binding:"omitempty,experience_level"`
	PreferredIndustries []string `json:"preferred_industries" binding:"omitempty,max=20,dive,max=80"`
	Education           *string  `json:"education" binding:"omitempty,max=2000"`
	Experience          *string  `json:"experience" binding:"omitempty,max=4000"`
	Location            *string  `json:"location" binding:"omitempty,max=120"`
}

// AdminPatch is what an administrator may change on someone else's profile.
type AdminPatch struct {
	Name  *string `json:"name" binding:"omitempty,max=120"`
	Email *string `json:"email" binding:"omitempty,email,max=254"`
	Role  *string `json:"role" binding:"omitempty,oneof=student admin"`
}

// Identity is what a sign-in provider knows about a user.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(id) == "" {
		return Profile{}, fmt.Errorf("%w: profile id is required", ErrInvalidInput)
	}
	return s.Repo.Get(ctx, id)
}

// Update applies patch to the stored profile and returns the result.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Profile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	applyPatch(&p, patch)
	if err := s.Repo.Upsert(ctx, p); err != nil {
		return Profile{}, fmt.Errorf("update profile %s: %w", id, err)
	}
	return s.Repo.Get(ctx, id)
}

// EnsureFromIdentity returns the profile for a signed-in identity, creating
// a student profile on first sign-in.
func (s *Service) EnsureFromIdentity(ctx context.Context, ident Identity) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	email := strings.TrimSpace(ident.Email)
	if strings.TrimSpace(ident.Subject) == "" || email == "" {
		return Profile{}, fmt.Errorf("%w: subject and email are required", ErrInvalidInput)
	}
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		if existing.Name == "" && ident.Name != "" {
			existing.Name = ident.Name
			if err := s.Repo.Upsert(ctx, existing); err != nil {
				return Profile{}, err
			}
		}
		s.recordLogin(ctx, existing.ID)
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}
	p := Profile{
		ID:                  uuid.NewString(),
		Email:               email,
		Name:                strings.TrimSpace(ident.Name),
		Role:                RoleStudent,
		Skills:              []string{},
		Interests:           []string{},
		CareerGoals:         []string{},
		PreferredIndustries: []string{},
		ExperienceLevel:     string(LevelBeginner),
	}
	if err := s.Repo.Upsert(ctx, p); err != nil {
		return Profile{}, fmt.Errorf("create profile: %w", err)
	}
	s.recordLogin(ctx, p.ID)
	return s.Repo.Get(ctx, p.ID)
}

func (s *Service) recordLogin(ctx context.Context, id string) {
	if err := s.Repo.RecordLogin(ctx, id, s.now()); err != nil {
		telemetry.Warn("profiles.record_login_failed", map[string]any{"user_id": id, "error": err})
	}
}

// List returns profiles newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Profile, error) {
	return s.Repo.List(ctx, limit)
}

// Stats summarizes profiles, counting as active those signed in within window.
func (s *Service) Stats(ctx context.Context, window time.Duration) (Stats, error) {
	return s.Repo.Stats(ctx, s.now().Add(-window))
}

// AdminUpdate changes name, email or role. Email must stay unique and the
// last admin cannot be demoted.
func (s *Service) AdminUpdate(ctx context.Context, id string, patch AdminPatch) (Profile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			return Profile{}, fmt.Errorf("%w: email cannot be blank", ErrInvalidInput)
		}
		other, err := s.Repo.GetByEmail(ctx, email)
		switch {
		case err == nil && other.ID != p.ID:
			return Profile{}, fmt.Errorf("%w: email already in use", ErrConflict)
		case err != nil && !errors.Is(err, ErrNotFound):
			return Profile{}, err
		}
		p.Email = email
	}
	if patch.Role != nil && *patch.Role != p.Role {
		if p.IsAdmin() {
			if err := s.ensureAnotherAdmin(ctx); err != nil {
				return Profile{}, err
			}
		}
		p.Role = *patch.Role
	}
	if err := s.Repo.Upsert(ctx, p); err != nil {
		return Profile{}, fmt.Errorf("update profile %s: %w", id, err)
	}
	return s.Repo.Get(ctx, id)
}

// Delete removes a profile and, best effort, its stored resume.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.IsAdmin() {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if p.ResumeKey != "" && s.Store != nil {
		if err := s.Store.Delete(ctx, p.ResumeKey); err != nil {
			telemetry.Warn("profiles.resume_cleanup_failed", map[string]any{"user_id": id, "key": p.ResumeKey, "error": err})
		}
	}
	return nil
}

func (s *Service) ensureAnotherAdmin(ctx context.Context) error {
	st, err := s.Repo.Stats(ctx, s.now())
	if err != nil {
		return err
	}
	if st.Roles[RoleAdmin] <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// AttachResume stores an uploaded resume and copies its text onto the profile.
func (s *Service) AttachResume(ctx context.Context, id, fileName string, data []byte) (Profile, error) {
	if s.Store == nil || s.Extract == nil {
		return Profile{}, errors.New("resume storage not configured")
	}
	if len(data) == 0 {
		return Profile{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	mimeType := http.DetectContentType(data)
	text, err := s.Extract(ctx, data, mimeType, fileName)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	text = truncate(strings.TrimSpace(text), maxResumeTextChars)

	saved, err := s.Store.Put(ctx, id, fileName, bytes.NewReader(data))
	if err != nil {
		return Profile{}, fmt.Errorf("store resume: %w", err)
	}
	previous := p.ResumeKey

	p.ResumeKey = saved.Key
	p.ResumeText = text
	if strings.TrimSpace(p.Experience) == "" {
		p.Experience = truncate(text, maxExperienceFromResume)
	}
	if err := s.Repo.Upsert(ctx, p); err != nil {
		return Profile{}, fmt.Errorf("update profile %s: %w", id, err)
	}
	if previous != "" && previous != saved.Key {
		if err := s.Store.Delete(ctx, previous); err != nil {
			telemetry.Warn("profiles.resume_cleanup_failed", map[string]any{"user_id": id, "key": previous, "error": err})
		}
	}
	return s.Repo.Get(ctx, id)
}

func applyPatch(p *Profile, patch Patch) {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Skills != nil {
		p.Skills = dedupe(patch.Skills)
	}
	if patch.Interests != nil {
		p.Interests = dedupe(patch.Interests)
	}
	if patch.CareerGoals != nil {
		p.CareerGoals = dedupe(patch.CareerGoals)
	}
	if patch.Goals != nil {
		p.Goals = strings.TrimSpace(*patch.Goals)
	}
	if patch.ExperienceLevel != nil {
		p.ExperienceLevel = strings.TrimSpace(*patch.ExperienceLevel)
	}
	if patch.PreferredIndustries != nil {
		p.PreferredIndustries = dedupe(patch.PreferredIndustries)
	}
	if patch.Education != nil {
		p.Education = strings.TrimSpace(*patch.Education)
	}
	if patch.Experience != nil {
		p.Experience = strings.TrimSpace(*patch.Experience)
	}
	if patch.Location != nil {
		p.Location = strings.TrimSpace(*patch.Location)
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
