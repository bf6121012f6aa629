package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureFromIdentityCreatesOnce(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil, nil)
	ctx := context.Background()

	first, err := svc.EnsureFromIdentity(ctx, Identity{Subject: "google:1", Email: "Ada@Example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, first.Role)
	assert.Equal(t, string(LevelBeginner), first.ExperienceLevel)
	assert.NotEmpty(t, first.ID)

	second, err := svc.EnsureFromIdentity(ctx, Identity{Subject: "google:1", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureFromIdentityRequiresEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil, nil)
	_, err := svc.EnsureFromIdentity(context.Background(), Identity{Subject: "google:1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateMissingProfile(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil, nil)
	name := "x"
	_, err := svc.Update(context.Background(), "missing", Patch{Name: &name})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAttachResumeKeepsExistingExperience(t *testing.T) {
	repo := NewMemoryRepo()
	require.NoError(t, repo.Upsert(context.Background(), Profile{ID: "u1", Email: "a@example.com", Experience: "Five years at Acme"}))
	svc := NewService(repo, &memoryStore{saved: map[string][]byte{}}, plainExtract)

	p, err := svc.AttachResume(context.Background(), "u1", "cv.txt", []byte("Resume body"))
	require.NoError(t, err)
	assert.Equal(t, "Five years at Acme", p.Experience)
	assert.Equal(t, "Resume body", p.ResumeText)
}

func TestAttachResumeRejectsUnsupportedFile(t *testing.T) {
	repo := NewMemoryRepo()
	require.NoError(t, repo.Upsert(context.Background(), Profile{ID: "u1", Email: "a@example.com"}))
	svc := NewService(repo, &memoryStore{saved: map[string][]byte{}}, plainExtract)

	_, err := svc.AttachResume(context.Background(), "u1", "cv.bin", []byte{0x00, 0x01, 0x02, 0xff})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAttachResumeReplacesPreviousUpload(t *testing.T) {
	repo := NewMemoryRepo()
	require.NoError(t, repo.Upsert(context.Background(), Profile{ID: "u1", Email: "a@example.com"}))
	store := &memoryStore{saved: map[string][]byte{}}
	svc := NewService(repo, store, plainExtract)

	first, err := svc.AttachResume(context.Background(), "u1", "cv.txt", []byte("First draft"))
	require.NoError(t, err)
	second, err := svc.AttachResume(context.Background(), "u1", "cv.txt", []byte("Second draft"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ResumeKey, second.ResumeKey)
	assert.Len(t, store.saved, 1)
	assert.Contains(t, store.saved, second.ResumeKey)
	assert.Equal(t, "Second draft", second.ResumeText)
	assert.Equal(t, "First draft", second.Experience)
}

func TestAttachResumeDoesNotStoreUnreadableFiles(t *testing.T) {
	repo := NewMemoryRepo()
	require.NoError(t, repo.Upsert(context.Background(), Profile{ID: "u1", Email: "a@example.com"}))
	store := &memoryStore{saved: map[string][]byte{}}
	svc := NewService(repo, store, plainExtract)

	_, err := svc.AttachResume(context.Background(), "u1", "cv.bin", []byte{0x00, 0x01, 0xff})
	require.Error(t, err)
	assert.Empty(t, store.saved)
}

func seedProfiles(t *testing.T, repo *MemoryRepo, profiles ...Profile) {
	t.Helper()
	for _, p := range profiles {
		require.NoError(t, repo.Upsert(context.Background(), p))
	}
}

func TestEnsureFromIdentityRecordsLogin(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil, nil)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }
	ctx := context.Background()

	_, err := svc.EnsureFromIdentity(ctx, Identity{Subject: "google:1", Email: "ada@example.com"})
	require.NoError(t, err)

	st, err := svc.Stats(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Total)
	assert.Equal(t, 1, st.Active)
	assert.Equal(t, 1, st.Roles[RoleStudent])

	now = now.Add(48 * time.Hour)
	st, err = svc.Stats(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Active)
}

func TestAdminUpdateChangesRoleAndEmail(t *testing.T) {
	repo := NewMemoryRepo()
	seedProfiles(t, repo,
		Profile{ID: "admin", Email: "root@example.com", Role: RoleAdmin},
		Profile{ID: "u1", Email: "a@example.com", Role: RoleStudent},
		Profile{ID: "u2", Email: "b@example.com", Role: RoleStudent},
	)
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	role, email := RoleAdmin, "ada@example.com"
	p, err := svc.AdminUpdate(ctx, "u1", AdminPatch{Role: &role, Email: &email})
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
	assert.Equal(t, "ada@example.com", p.Email)

	taken := "B@example.com"
	_, err = svc.AdminUpdate(ctx, "u1", AdminPatch{Email: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.AdminUpdate(ctx, "missing", AdminPatch{Role: &role})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLastAdminCannotBeDemotedOrDeleted(t *testing.T) {
	repo := NewMemoryRepo()
	seedProfiles(t, repo,
		Profile{ID: "admin", Email: "root@example.com", Role: RoleAdmin},
		Profile{ID: "u1", Email: "a@example.com", Role: RoleStudent},
	)
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	student := RoleStudent
	_, err := svc.AdminUpdate(ctx, "admin", AdminPatch{Role: &student})
	assert.ErrorIs(t, err, ErrLastAdmin)
	assert.ErrorIs(t, svc.Delete(ctx, "admin"), ErrLastAdmin)

	promote := RoleAdmin
	_, err = svc.AdminUpdate(ctx, "u1", AdminPatch{Role: &promote})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "admin"))

	_, err = svc.Get(ctx, "admin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesStoredResume(t *testing.T) {
	repo := NewMemoryRepo()
	store := &memoryStore{saved: map[string][]byte{"u1/1_cv.txt": []byte("cv")}}
	seedProfiles(t, repo, Profile{ID: "u1", Email: "a@example.com", Role: RoleStudent, ResumeKey: "u1/1_cv.txt"})
	svc := NewService(repo, store, plainExtract)

	require.NoError(t, svc.Delete(context.Background(), "u1"))
	assert.Empty(t, store.saved)
	assert.ErrorIs(t, svc.Delete(context.Background(), "u1"), ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	seedProfiles(t, repo, Profile{ID: "u1", Email: "a@example.com"})
	time.Sleep(time.Millisecond)
	seedProfiles(t, repo, Profile{ID: "u2", Email: "b@example.com"})

	got, err := NewService(repo, nil, nil).List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u2", got[0].ID)
}
