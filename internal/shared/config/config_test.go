package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "local", cfg.ObjectStoreType)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.0-flash"}, cfg.GeminiModels)
	assert.Equal(t, 3, cfg.GenerationMaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.MarketCacheTTL)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.True(t, cfg.IsDev())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://localhost/career")
	t.Setenv("GEMINI_MODELS", " model-a , ,model-b")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("GENERATION_MAX_ATTEMPTS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, []string{"model-a", "model-b"}, cfg.GeminiModels)
	assert.Equal(t, "s3", cfg.ObjectStoreType)
	assert.Equal(t, 3, cfg.GenerationMaxAttempts)
	assert.False(t, cfg.IsDev())
}

func TestLoadRequiresDatabaseInProduction(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=config.Load")
}

func TestLoadReadsDotenvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9090\nGEMINI_API_KEY=from-file\n"), 0o600))
	t.Setenv("PORT", "7070")
	t.Setenv("ENV", "dev")
	t.Setenv("GEMINI_API_KEY", "")
	require.NoError(t, os.Unsetenv("GEMINI_API_KEY"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "from-file", cfg.GeminiAPIKey)
}
