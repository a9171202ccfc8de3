package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Server.BaseURL = "https://coach.example.edu"
	cfg.Navigation.Style = "modes"
	cfg.Speech.TTSCommand = []string{"espeak", "-s", "150"}

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.Server.BaseURL != "https://coach.example.edu" {
		t.Errorf("Server.BaseURL: got %q", loaded.Server.BaseURL)
	}
	if loaded.Navigation.Style != "modes" {
		t.Errorf("Navigation.Style: got %q, want %q", loaded.Navigation.Style, "modes")
	}
	if len(loaded.Speech.TTSCommand) != 3 || loaded.Speech.TTSCommand[0] != "espeak" {
		t.Errorf("Speech.TTSCommand: got %v", loaded.Speech.TTSCommand)
	}
}

func TestDefaultConfigInterviewWindow(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Interview.HistoryWindow != 5 {
		t.Errorf("default HistoryWindow: got %d, want 5", cfg.Interview.HistoryWindow)
	}
	if cfg.API.Retry.MaxAttempts != 3 {
		t.Errorf("default Retry.MaxAttempts: got %d, want 3", cfg.API.Retry.MaxAttempts)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	partial := `version: 1
server:
  base_url: http://10.0.0.5:5000
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(partial), 0644); err != nil {
		t.Fatalf("failed to write partial config: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed on partial config: %v", err)
	}
	if cfg.Server.BaseURL != "http://10.0.0.5:5000" {
		t.Errorf("BaseURL: got %q", cfg.Server.BaseURL)
	}
	if cfg.Interview.Difficulty != "medium" {
		t.Errorf("Interview.Difficulty should keep default, got %q", cfg.Interview.Difficulty)
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Load on missing dir: %v", err)
	}
	if cfg.Navigation.Style != "sections" {
		t.Errorf("Navigation.Style: got %q, want sections", cfg.Navigation.Style)
	}
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{0, 30 * time.Second},
		{-1, 30 * time.Second},
		{5, 5 * time.Second},
	}
	for _, tt := range tests {
		got := APIConfig{TimeoutSeconds: tt.seconds}.Timeout()
		if got != tt.want {
			t.Errorf("Timeout(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestStoragePath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.StoragePath("/home/u/.coach"); got != filepath.Join("/home/u/.coach", "coach.db") {
		t.Errorf("relative StoragePath: got %q", got)
	}
	cfg.Storage.Path = "/var/lib/coach.db"
	if got := cfg.StoragePath("/home/u/.coach"); got != "/var/lib/coach.db" {
		t.Errorf("absolute StoragePath: got %q", got)
	}
}
