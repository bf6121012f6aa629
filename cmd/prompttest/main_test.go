package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-backend/internal/generation"
	"career-backend/internal/shared/telemetry"
)

func writeProfile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.json")
	body := `{"id":"p1","name":"Ada","skills":["Python","SQL"],"interests":["data"],"experience_level":"Mid Level","location":"Austin"}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runReport(t *testing.T, opts options) report {
	t.Helper()
	prev := telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(prev) })

	var out bytes.Buffer
	gen := generation.New(context.Background(), generation.Options{})
	require.NoError(t, run(context.Background(), opts, gen, &out))

	var rep report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	return rep
}

func TestRunSkillGapWithoutGenerationUsesFallback(t *testing.T) {
	rep := runReport(t, options{Op: "skill-gap", ProfilePath: writeProfile(t), Career: "Data Scientist"})

	assert.Equal(t, "unavailable", rep.Outcome)
	assert.True(t, rep.Fallback)
	result, ok := rep.Result.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, result["required_skills_for_goals"])
	assert.NotEmpty(t, result["learning_recommendations"])
}

func TestRunMarketUsesProfileLocation(t *testing.T) {
	rep := runReport(t, options{Op: "market", ProfilePath: writeProfile(t)})

	result, ok := rep.Result.(map[string]any)
	require.True(t, ok)
	assert.NotZero(t, result["average_salary"])
	locations, ok := result["top_locations"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, locations)
	assert.Equal(t, "Austin", locations[0].(map[string]any)["name"])
}

func TestRunRejectsUnknownOperation(t *testing.T) {
	gen := generation.New(context.Background(), generation.Options{})
	err := run(context.Background(), options{Op: "poetry", ProfilePath: writeProfile(t)}, gen, io.Discard)
	assert.Error(t, err)
}

func TestRunRequiresProfile(t *testing.T) {
	gen := generation.New(context.Background(), generation.Options{})
	assert.Error(t, run(context.Background(), options{Op: "chat", Message: "hi"}, gen, io.Discard))
}
