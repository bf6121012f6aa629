package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func captureLines(t *testing.T, fn func()) []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	fn()

	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", raw, err)
		}
		lines = append(lines, entry)
	}
	return lines
}

func TestInfoWritesJSONLine(t *testing.T) {
	lines := captureLines(t, func() {
		Info("request.complete", map[string]any{"status": 200, "path": "/api/health"})
	})
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	entry := lines[0]
	if entry["level"] != "info" {
		t.Fatalf("expected level info, got %v", entry["level"])
	}
	if entry["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
	if entry["path"] != "/api/health" {
		t.Fatalf("unexpected path: %v", entry["path"])
	}
}

func TestWarnFlattensErrors(t *testing.T) {
	lines := captureLines(t, func() {
		Warn("generation.timeout", map[string]any{"error": errors.New("deadline")})
	})
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0]["level"] != "warn" {
		t.Fatalf("expected warn, got %v", lines[0]["level"])
	}
	if lines[0]["error"] != "deadline" {
		t.Fatalf("expected error string, got %v", lines[0]["error"])
	}
}

func TestSetupAddsStaticFieldsAndLevel(t *testing.T) {
	Setup("career-api", "production")
	defer Setup("", "dev")

	lines := captureLines(t, func() {
		Debug("hidden", nil)
		Error("shown", nil)
	})
	if len(lines) != 1 {
		t.Fatalf("expected debug to be filtered, got %d lines", len(lines))
	}
	if lines[0]["service"] != "career-api" || lines[0]["env"] != "production" {
		t.Fatalf("missing static fields: %v", lines[0])
	}
}
