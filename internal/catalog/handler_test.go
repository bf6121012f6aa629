package catalog

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-backend/internal/shared/telemetry"
)

func newCatalogRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(prev) })

	h := NewHandler(seededRepo(t))
	h.Now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func TestHandlerListCareers(t *testing.T) {
	r := newCatalogRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/careers?industry=Technology&limit=2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success   bool     `json:"success"`
		Careers   []Career `json:"careers"`
		Count     int      `json:"count"`
		Timestamp string   `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "Software Engineer", body.Careers[0].Title)
	assert.Equal(t, "2026-03-01T12:00:00Z", body.Timestamp)
}

func TestHandlerListSkills(t *testing.T) {
	r := newCatalogRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/skills?q=design", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Skills []Skill `json:"skills"`
		Count  int     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "User Experience Design", body.Skills[0].Name)
}
