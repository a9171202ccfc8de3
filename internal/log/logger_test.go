package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/config"
)

func TestAppendAndReadAll(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	if err := l.Append(LogEvent{Event: EventLogin, User: "alice"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append(LogEvent{Event: EventExchangeCompleted, Questions: 2}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Event != EventLogin || events[0].User != "alice" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Time.IsZero() {
		t.Error("Append should stamp a time")
	}
}

func TestReadAllMissingFile(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	events, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestNilLoggerAppend(t *testing.T) {
	var l *Logger
	if err := l.Append(LogEvent{Event: EventLogout}); err != nil {
		t.Errorf("nil logger Append: %v", err)
	}
}

func TestNewDiagnosticWritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, closeLog, err := NewDiagnostic(dir, config.DefaultConfig().Logging)
	if err != nil {
		t.Fatalf("NewDiagnostic: %v", err)
	}
	logger.Info("hello")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "logs", "coach.log"))
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"hello"`) {
		t.Errorf("log file = %q, want the hello entry", data)
	}
}

func TestNewDiagnosticBadLevel(t *testing.T) {
	cfg := config.DefaultConfig().Logging
	cfg.Level = "loud"
	if _, _, err := NewDiagnostic(t.TempDir(), cfg); err == nil {
		t.Error("expected error for invalid level")
	}
}
