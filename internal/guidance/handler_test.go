package guidance

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-backend/internal/catalog"
	"career-backend/internal/profiles"
	"career-backend/internal/shared/auth"
	"career-backend/internal/shared/server/middleware"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newGuidanceRouter(t *testing.T, gen *fakeGenerator) (*gin.Engine, *Service) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	svc, careers, _ := newTestService(t, gen)
	svc.Now = func() time.Time { return fixedNow }
	_, err := catalog.Seed(context.Background(), careers)
	require.NoError(t, err)

	repo := profiles.NewMemoryRepo()
	require.NoError(t, repo.Upsert(context.Background(), profiles.Profile{
		ID: "u1", Email: "ada@example.com", Name: "Ada", Role: profiles.RoleStudent,
		Skills: []string{"Python"}, ExperienceLevel: "Senior Level", Location: "San Francisco",
	}))
	require.NoError(t, repo.Upsert(context.Background(), profiles.Profile{ID: "u2", Email: "bob@example.com", Name: "Bob", Role: profiles.RoleStudent}))

	catalogHandler := catalog.NewHandler(careers)
	r := gin.New()
	api := r.Group("/api", middleware.Auth())
	NewHandler(svc, repo, catalogHandler.ListCareers).RegisterRoutes(api)
	return r, svc
}

func bearer(t *testing.T, sub, role string) string {
	t.Helper()
	token, err := auth.SignJWT(auth.Claims{Sub: sub, Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func do(r *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecommendationsAccessControl(t *testing.T) {
	r, _ := newGuidanceRouter(t, &fakeGenerator{})
	cases := []struct {
		name  string
		token string
		path  string
		want  int
	}{
		{"owner", bearer(t, "u1", profiles.RoleStudent), "/api/career/recommendations/u1", http.StatusOK},
		{"query param", bearer(t, "u1", profiles.RoleStudent), "/api/career/recommendations?user_id=u1", http.StatusOK},
		{"stranger", bearer(t, "u2", profiles.RoleStudent), "/api/career/recommendations/u1", http.StatusForbidden},
		{"admin", bearer(t, "root", profiles.RoleAdmin), "/api/career/recommendations/u1", http.StatusOK},
		{"admin missing user", bearer(t, "root", profiles.RoleAdmin), "/api/career/recommendations/ghost", http.StatusNotFound},
		{"anonymous", "", "/api/career/recommendations/u1", http.StatusUnauthorized},
		{"catalog listing", "", "/api/career/recommendations", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, do(r, http.MethodGet, tc.path, tc.token, nil).Code)
		})
	}
}

func TestRecommendationsFallbackResponseShape(t *testing.T) {
	r, _ := newGuidanceRouter(t, &fakeGenerator{})
	w := do(r, http.MethodGet, "/api/career/recommendations/u1", bearer(t, "u1", profiles.RoleStudent), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body RecommendationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "u1", body.UserID)
	assert.Equal(t, "2026-03-01T12:00:00Z", body.Timestamp)
	require.Len(t, body.Recommendations, 5)
	assert.Equal(t, 75.0, body.Recommendations[0].MatchScore)
}

func TestSkillGapEndpoint(t *testing.T) {
	r, _ := newGuidanceRouter(t, &fakeGenerator{})
	w := do(r, http.MethodGet, "/api/skills/analysis/u1?career=Software+Developer", bearer(t, "u1", profiles.RoleStudent), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body SkillGapResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Software Developer", body.TargetCareer)
	assert.NotContains(t, body.Analysis.SkillsGap, "Python")
	assert.Contains(t, body.Analysis.RequiredSkillsForGoals, "Mentoring")

	w = do(r, http.MethodGet, "/api/skills/analysis/u1", bearer(t, "u2", profiles.RoleStudent), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMarketEndpointUsesProfile(t *testing.T) {
	r, _ := newGuidanceRouter(t, &fakeGenerator{})
	w := do(r, http.MethodGet, "/api/job-market/analysis?user_id=u1", bearer(t, "u1", profiles.RoleStudent), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body MarketResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Technology", body.CareerField)
	assert.Equal(t, 165000, body.Analysis.AverageSalary)
	assert.Equal(t, "San Francisco", body.Analysis.TopLocations[0].Name)

	w = do(r, http.MethodGet, "/api/job-market/analysis?industry=Finance&location=Denver&experience_level=Mid+Level", bearer(t, "u2", profiles.RoleStudent), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Finance", body.CareerField)
	assert.Equal(t, 78750, body.Analysis.AverageSalary)
	assert.Equal(t, "FinTech", body.Analysis.IndustryAnalysis[0].Name)

	w = do(r, http.MethodGet, "/api/job-market/analysis?user_id=u1", bearer(t, "u2", profiles.RoleStudent), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(r, http.MethodGet, "/api/job-market/analysis", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChatEndpoint(t *testing.T) {
	gen := &fakeGenerator{available: true, reply: "Focus on statistics."}
	r, svc := newGuidanceRouter(t, gen)
	token := bearer(t, "u1", profiles.RoleStudent)

	w := do(r, http.MethodPost, "/api/chatbot/message", token, []byte(`{"message": "  What should I learn?  "}`))
	require.Equal(t, http.StatusOK, w.Code)
	var body ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "What should I learn?", body.Message)
	assert.Equal(t, "Focus on statistics.", body.Response)
	assert.Equal(t, "u1", body.UserID)
	assert.Empty(t, body.Exception)

	require.NoError(t, svc.Wait(context.Background()))
	w = do(r, http.MethodGet, "/api/chatbot/history?limit=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Conversations []Conversation `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Conversations, 1)
	assert.Equal(t, "Focus on statistics.", history.Conversations[0].Response)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/chatbot/message", token, []byte(`{"message": ""}`)).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/chatbot/message", token, []byte(`not json`)).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/chatbot/message", bearer(t, "ghost", profiles.RoleStudent), []byte(`{"message": "hi"}`)).Code)
}

func TestChatFallbackIncludesException(t *testing.T) {
	r, _ := newGuidanceRouter(t, &fakeGenerator{})
	w := do(r, http.MethodPost, "/api/chatbot/message", bearer(t, "u2", profiles.RoleStudent), []byte(`{"message": "hi"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var body ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Contains(t, body.Response, "Hello Bob!")
	assert.Equal(t, "generation service unavailable", body.Exception)
}
