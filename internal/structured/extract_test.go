package structured

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMapping(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
		ok   bool
	}{
		{name: "no braces", in: "garbage no braces", ok: false},
		{name: "prefix and suffix", in: `prefix {"a": 1} suffix`, want: map[string]any{"a": float64(1)}, ok: true},
		{name: "fenced", in: "```json\n{\"trend\": \"Up\"}\n```", want: map[string]any{"trend": "Up"}, ok: true},
		{name: "nested", in: `{"a": {"b": [1, 2]}}`, want: map[string]any{"a": map[string]any{"b": []any{float64(1), float64(2)}}}, ok: true},
		{name: "closing before opening", in: `} oops {`, ok: false},
		{name: "invalid json", in: `{"a": }`, ok: false},
		{name: "two objects", in: `{"a": 1} and {"b": 2}`, ok: false},
		{name: "null literal", in: `null {} `, want: map[string]any{}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractMapping(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestExtractList(t *testing.T) {
	got, ok := ExtractList(`Here are careers: [{"career_name": "Data Scientist"}, {"career_name": "Analyst"}] hope it helps`)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "Data Scientist", got[0]["career_name"])

	_, ok = ExtractList("no list here")
	assert.False(t, ok)

	_, ok = ExtractList(`[1, 2, 3]`)
	assert.False(t, ok, "non-object elements are not a list of mappings")

	empty, ok := ExtractList(`[]`)
	require.True(t, ok)
	assert.Empty(t, empty)
}

func TestExtractListIgnoresFences(t *testing.T) {
	got, ok := ExtractList("```json\n[{\"skill\": \"SQL\"}]\n```")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "SQL", got[0]["skill"])
}
