package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"viralflow/pkg/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"debug", log.Debug, false},
		{"INFO", log.Info, false},
		{"Warning", log.Warn, false},
		{"error", log.Error, false},
		{"FATAL", log.Fatal, false},
		{"", log.Info, false},
		{"verbose", log.Info, true},
	}

	for _, tt := range tests {
		got, err := log.ParseLevel(tt.in)
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Warn, log.NewWriter(&buf))

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")
	logger.Error("also kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"WARN"`) {
		t.Errorf("first entry not WARN: %s", lines[0])
	}
}

func TestLogger_FieldsAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Debug, log.NewWriter(&buf)).With("service", "viralflow")

	ctx := log.WithRequestID(context.Background(), "req-42")
	logger.InfoCtx(ctx, "plan generated", "platform", "抖音 (Douyin)", "shots", 5)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	if entry["msg"] != "plan generated" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["request_id"] != "req-42" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["service"] != "viralflow" {
		t.Errorf("base field service = %v", entry["service"])
	}
	if entry["platform"] != "抖音 (Douyin)" {
		t.Errorf("platform = %v", entry["platform"])
	}
	if entry["shots"] != float64(5) {
		t.Errorf("shots = %v", entry["shots"])
	}
}

func TestLogger_OddFieldCountIgnoresTrailingKey(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Debug, log.NewWriter(&buf))

	logger.Info("entry", "paired", 1, "dangling")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, ok := entry["dangling"]; ok {
		t.Error("dangling key should be dropped")
	}
	if entry["paired"] != float64(1) {
		t.Errorf("paired = %v", entry["paired"])
	}
}

func TestDefault_UnsetIsSilent(t *testing.T) {
	log.SetDefault(nil)
	// Must not panic and must emit nothing.
	log.GlobalInfo("into the void")
	log.GlobalErrorCtx(context.Background(), "still nothing")
}
