package bootstrap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-backend/internal/shared/cache"
	"career-backend/internal/shared/config"
	"career-backend/internal/shared/telemetry"
)

func quiet(t *testing.T) {
	t.Helper()
	prev := telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(prev) })
}

func devConfig(t *testing.T) config.Config {
	return config.Config{
		Env:                   "dev",
		ObjectStoreType:       "local",
		LocalStoreDir:         t.TempDir(),
		GenerationMaxAttempts: 2,
		MarketCacheTTL:        time.Minute,
	}
}

func TestBuildFallsBackToMemoryInDev(t *testing.T) {
	quiet(t)
	app, err := Build(context.Background(), devConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	assert.Nil(t, app.DB)
	assert.False(t, app.Generation.Available())
	assert.Equal(t, 2, app.Guidance.MaxAttempts)
	assert.Equal(t, time.Minute, app.Guidance.CacheTTL)

	careers, err := app.Careers.ListCareers(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, careers, 5)

	require.NotNil(t, app.Notifications)
	require.NotNil(t, app.Planning)
	assert.Same(t, app.Notifications, app.Planning.Notifier)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	quiet(t)
	cfg := devConfig(t)
	cfg.Env = "production"
	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}

func TestBuildUsesRedisAsSecondTier(t *testing.T) {
	quiet(t)
	mr := miniredis.RunT(t)
	cfg := devConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	require.NotNil(t, app.Redis)

	tiered, ok := app.Guidance.Cache.(*cache.Tiered)
	require.True(t, ok)
	tiered.Set(context.Background(), "market:abc", []byte(`{"ok":true}`), time.Minute)
	assert.True(t, mr.Exists("market:abc"))
}

func TestBuildContinuesWhenRedisIsDown(t *testing.T) {
	quiet(t)
	cfg := devConfig(t)
	cfg.RedisURL = "redis://127.0.0.1:1"

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, app.Redis)
	assert.NoError(t, app.Close(context.Background()))
}
