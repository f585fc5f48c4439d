package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"ERROR", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	l, err := New(Config{Level: "debug", File: logFile})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer l.Close()

	l.Info("test", "hello", F("key", "value"))

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	line := string(data)
	if !strings.Contains(line, "[INFO] [test] hello") {
		t.Errorf("log line missing message: %q", line)
	}
	if !strings.Contains(line, "key=value") {
		t.Errorf("log line missing field: %q", line)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	l, err := New(Config{Level: "error", File: logFile})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer l.Close()

	l.Debug("test", "should not appear")
	l.Info("test", "should not appear either")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty log, got %q", string(data))
	}
}

func TestRotateFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "app.log")

	// Current log plus two existing backups
	for _, name := range []string{"app.log", "app.1.log", "app.2.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := rotateFiles(base, 2); err != nil {
		t.Fatalf("rotateFiles() error = %v", err)
	}

	// app.log -> app.1.log, app.1.log -> app.2.log, old app.2.log removed
	if _, err := os.Stat(base); !os.IsNotExist(err) {
		t.Errorf("current log should have been rotated away")
	}

	data, err := os.ReadFile(filepath.Join(dir, "app.1.log"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "app.log" {
		t.Errorf("app.1.log = %q, want contents of previous current log", string(data))
	}

	data, err = os.ReadFile(filepath.Join(dir, "app.2.log"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "app.1.log" {
		t.Errorf("app.2.log = %q, want contents of previous first backup", string(data))
	}
}
