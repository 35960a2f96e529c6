package logger

import (
	"bytes"
	"course-marketplace/internal/config"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.Log{Level: "info", Format: "json"}, &buf)

	log.Debug("hidden")
	log.Info("checkout submitted", "session_id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if record["msg"] != "checkout submitted" || record["session_id"] != "abc" {
		t.Fatalf("unexpected record: %v", record)
	}
}

func TestNewWithWriterText(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.Log{Level: "debug", Format: "text"}, &buf)

	log.Debug("visible")

	if !strings.Contains(buf.String(), "msg=visible") {
		t.Fatalf("expected text record, got %q", buf.String())
	}
}
