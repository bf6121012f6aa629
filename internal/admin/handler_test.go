package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-backend/internal/catalog"
	"career-backend/internal/profiles"
	"career-backend/internal/shared/auth"
	"career-backend/internal/shared/server/middleware"
	"career-backend/internal/shared/telemetry"
)

func newTestRouter(t *testing.T) (*gin.Engine, *profiles.MemoryRepo) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	prev := telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(prev) })

	ctx := context.Background()
	users := profiles.NewMemoryRepo()
	require.NoError(t, users.Upsert(ctx, profiles.Profile{ID: "root", Email: "root@example.com", Name: "Root", Role: profiles.RoleAdmin}))
	require.NoError(t, users.Upsert(ctx, profiles.Profile{ID: "u1", Email: "ada@example.com", Name: "Ada", Role: profiles.RoleStudent}))
	require.NoError(t, users.Upsert(ctx, profiles.Profile{ID: "u2", Email: "bob@example.com", Name: "Bob", Role: profiles.RoleStudent}))

	cat := catalog.NewMemoryRepo()
	require.NoError(t, cat.UpsertCareer(ctx, catalog.Career{ID: "c1", Title: "Data Scientist"}))
	require.NoError(t, cat.UpsertSkill(ctx, catalog.Skill{ID: "s1", Name: "Python"}))
	require.NoError(t, cat.UpsertSkill(ctx, catalog.Skill{ID: "s2", Name: "SQL"}))

	r := gin.New()
	api := r.Group("/api", middleware.Auth(), middleware.RequireUser(), middleware.RequireAdmin())
	NewHandler(profiles.NewService(users, nil, nil), cat).RegisterRoutes(api)
	return r, users
}

func send(t *testing.T, r *gin.Engine, method, path, sub, role string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, err := auth.SignJWT(auth.Claims{Sub: sub, Role: role})
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/api/admin/stats", "/api/admin/users"} {
		resp := send(t, r, http.MethodGet, path, "u1", profiles.RoleStudent, nil)
		assert.Equal(t, http.StatusForbidden, resp.Code, path)
	}
	resp := send(t, r, http.MethodDelete, "/api/admin/users/u2", "u1", profiles.RoleStudent, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestStatsSummarizesUsersAndCatalog(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := send(t, r, http.MethodGet, "/api/admin/stats", "root", profiles.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Stats struct {
			TotalUsers       int         `json:"total_users"`
			TotalCareers     int         `json:"total_careers"`
			TotalSkills      int         `json:"total_skills"`
			ActiveSessions   int         `json:"active_sessions"`
			RoleDistribution []roleCount `json:"role_distribution"`
			RecentUsers      []struct {
				ID string `json:"id"`
			} `json:"recent_users"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Stats.TotalUsers)
	assert.Equal(t, 1, body.Stats.TotalCareers)
	assert.Equal(t, 2, body.Stats.TotalSkills)
	assert.Equal(t, 0, body.Stats.ActiveSessions)
	assert.Equal(t, []roleCount{{Role: "admin", Count: 1}, {Role: "student", Count: 2}}, body.Stats.RoleDistribution)
	assert.Len(t, body.Stats.RecentUsers, 3)
}

func TestUpdateUserRoleAndEmail(t *testing.T) {
	r, users := newTestRouter(t)

	resp := send(t, r, http.MethodPut, "/api/admin/users/u1", "root", profiles.RoleAdmin,
		gin.H{"role": "admin", "email": "ada@new.example.com"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	p, err := users.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, profiles.RoleAdmin, p.Role)
	assert.Equal(t, "ada@new.example.com", p.Email)

	resp = send(t, r, http.MethodPut, "/api/admin/users/u2", "root", profiles.RoleAdmin, gin.H{"email": "ada@new.example.com"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = send(t, r, http.MethodPut, "/api/admin/users/u2", "root", profiles.RoleAdmin, gin.H{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = send(t, r, http.MethodPut, "/api/admin/users/ghost", "root", profiles.RoleAdmin, gin.H{"name": "Nobody"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteUserKeepsLastAdmin(t *testing.T) {
	r, users := newTestRouter(t)

	resp := send(t, r, http.MethodDelete, "/api/admin/users/root", "root", profiles.RoleAdmin, nil)
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = send(t, r, http.MethodDelete, "/api/admin/users/u2", "root", profiles.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	_, err := users.Get(context.Background(), "u2")
	assert.ErrorIs(t, err, profiles.ErrNotFound)

	resp = send(t, r, http.MethodGet, "/api/admin/users", "root", profiles.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Users []userSummary `json:"users"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Users, 2)
}
