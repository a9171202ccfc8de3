// Package config handles reading and writing ~/.coach/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	Version    int              `yaml:"version"`
	Server     ServerConfig     `yaml:"server"`
	API        APIConfig        `yaml:"api"`
	Navigation NavigationConfig `yaml:"navigation"`
	Interview  InterviewConfig  `yaml:"interview"`
	Speech     SpeechConfig     `yaml:"speech"`
	Logging    LoggingConfig    `yaml:"logging"`
	Storage    StorageConfig    `yaml:"storage"`
}

// ServerConfig points the client at the remote service.
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
}

// APIConfig controls remote call behaviour.
type APIConfig struct {
	TimeoutSeconds int         `yaml:"timeout_seconds"`
	Retry          RetryConfig `yaml:"retry"`
}

// RetryConfig bounds retries of the completion call.
type RetryConfig struct {
	MaxAttempts       int `yaml:"max_attempts"`
	InitialIntervalMs int `yaml:"initial_interval_ms"`
}

// NavigationConfig selects the dashboard layout.
type NavigationConfig struct {
	Style string `yaml:"style"` // "sections" | "modes"
}

// InterviewConfig holds interview defaults.
type InterviewConfig struct {
	Type          string `yaml:"type"`       // technical | behavioral | hr
	Difficulty    string `yaml:"difficulty"` // easy | medium | hard
	HistoryWindow int    `yaml:"history_window"`
	VoiceMode     bool   `yaml:"voice_mode"`
}

// SpeechConfig configures speech capture and synthesis.
// Empty values select the unavailable variants.
type SpeechConfig struct {
	RecognizerURL  string   `yaml:"recognizer_url"`  // ws:// streaming recognizer
	CaptureCommand []string `yaml:"capture_command"` // raw PCM on stdout, e.g. arecord
	TTSCommand     []string `yaml:"tts_command"`     // text appended as last arg, e.g. espeak
}

// LoggingConfig controls the rotating diagnostic log.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// StorageConfig locates the durable client storage.
type StorageConfig struct {
	Path string `yaml:"path"` // relative paths resolve against the home dir
}

const configFile = "config.yaml"

// Timeout returns the per-request timeout.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultHome returns ~/.coach, falling back to ./.coach when the home
// directory cannot be resolved.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coach"
	}
	return filepath.Join(home, ".coach")
}

// ReadConfig reads config.yaml from the given home directory.
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(home string) (*Config, error) {
	path := filepath.Join(home, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to config.yaml in the given home directory.
// Creates the directory if it does not exist.
func WriteConfig(home string, cfg *Config) error {
	if err := os.MkdirAll(home, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(home, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Load reads the config from home, returning defaults when the file is absent.
func Load(home string) (*Config, error) {
	cfg, err := ReadConfig(home)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// StoragePath resolves the storage path against home.
func (c *Config) StoragePath(home string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(home, c.Storage.Path)
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
		},
		API: APIConfig{
			TimeoutSeconds: 30,
			Retry: RetryConfig{
				MaxAttempts:       3,
				InitialIntervalMs: 500,
			},
		},
		Navigation: NavigationConfig{
			Style: "sections",
		},
		Interview: InterviewConfig{
			Type:          "technical",
			Difficulty:    "medium",
			HistoryWindow: 5,
			VoiceMode:     false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Storage: StorageConfig{
			Path: "coach.db",
		},
	}
}
