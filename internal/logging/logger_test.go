package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelDebug, FormatJSON)
	logger.SetOutput(&buf)

	logger.WithField("wallet", "W1").Info("request served")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Level != "info" || entry.Message != "request served" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Fields["wallet"] != "W1" {
		t.Errorf("fields = %v, want wallet=W1", entry.Fields)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelWarn, FormatJSON)
	logger.SetOutput(&buf)

	logger.Debug("invisible")
	logger.Info("invisible")
	logger.Warn("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line of output, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "visible") {
		t.Errorf("unexpected output: %q", lines[0])
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(LevelDebug, FormatJSON)
	parent.SetOutput(&buf)

	child := parent.WithField("assetId", 42)
	child.WithError(errors.New("boom")).Warn("child message")

	buf.Reset()
	parent.Info("parent message")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(entry.Fields) != 0 {
		t.Errorf("parent fields leaked: %v", entry.Fields)
	}
}

func TestFromContext(t *testing.T) {
	logger := NewLogger(LevelDebug, FormatText)
	ctx := WithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Error("expected the context logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Error("expected a fallback logger for a bare context")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
