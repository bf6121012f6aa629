package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-backend/internal/shared/telemetry"
)

type stubGeneration struct {
	available bool
	model     string
}

func (s stubGeneration) Available() bool      { return s.available }
func (s stubGeneration) CurrentModel() string { return s.model }

func fixedNow() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

func TestCheckWithoutDatabase(t *testing.T) {
	svc := NewService(nil, stubGeneration{})
	svc.Now = fixedNow

	r := svc.Check(context.Background())
	assert.Equal(t, StatusHealthy, r.Status)
	assert.Equal(t, "memory", r.Database)
	assert.Equal(t, "unavailable", r.Generation)
	assert.Empty(t, r.Model)
	assert.Equal(t, "2026-03-01T12:00:00Z", r.Timestamp)
}

func TestCheckReportsGenerationModel(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()
	mock.ExpectPing()

	r := NewService(mockDB, stubGeneration{available: true, model: "gemini-2.5-flash"}).Check(context.Background())
	assert.Equal(t, StatusHealthy, r.Status)
	assert.Equal(t, "connected", r.Database)
	assert.Equal(t, "available", r.Generation)
	assert.Equal(t, "gemini-2.5-flash", r.Model)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthEndpointDegradedWhenDatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	prev := telemetry.SetOutput(io.Discard)
	defer telemetry.SetOutput(prev)

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	r := gin.New()
	NewService(mockDB, stubGeneration{}).RegisterRoutes(r.Group("/api"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var body Report
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, StatusDegraded, body.Status)
	assert.Equal(t, "unreachable", body.Database)
}
