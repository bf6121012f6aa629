// Package structured pulls JSON values out of free-form generated text.
//
// Extraction is a heuristic: it slices from the first opening bracket to the
// last closing one and hands the slice to encoding/json. It never returns an
// error; callers get ok=false and decide what an absent value means.
package structured

import (
	"encoding/json"
	"strings"
)

// ExtractList returns the JSON array of objects embedded in text.
func ExtractList(text string) ([]map[string]any, bool) {
	raw, ok := between(text, "[", "]")
	if !ok {
		return nil, false
	}
	var out []map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	if out == nil {
		out = []map[string]any{}
	}
	return out, true
}

// ExtractMapping returns the JSON object embedded in text.
func ExtractMapping(text string) (map[string]any, bool) {
	raw, ok := between(text, "{", "}")
	if !ok {
		return nil, false
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	if out == nil {
		return nil, false
	}
	return out, true
}

func between(text, open, close string) (string, bool) {
	start := strings.Index(text, open)
	end := strings.LastIndex(text, close)
	if start < 0 || end < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
