package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend is the environment-supplied backend configuration blob, parsed
// from JSON. A non-empty credential key selects remote mode; anything
// missing or malformed silently falls back to local mode.
type Backend struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

// Valid reports whether the backend config selects remote mode
func (b Backend) Valid() bool {
	return strings.TrimSpace(b.APIKey) != "" && strings.TrimSpace(b.BaseURL) != ""
}

// Config holds everything read at startup. It is constructed once and
// passed down explicitly; nothing else reads the environment.
type Config struct {
	Backend   Backend `yaml:"-" json:"-"`
	AppID     string  `yaml:"-" json:"-"`
	AuthToken string  `yaml:"-" json:"-"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".blobtask", "logs", "blobtask.log")
	}

	return &Config{
		AppID:    "blobtask",
		LogLevel: getEnv("BLOBTASK_LOG_LEVEL", "INFO"),
		LogFile:  getEnv("BLOBTASK_LOG_FILE", logPath),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load reads ~/.blobtask/config.yaml (if present) and the environment.
// A .env file in the working directory is honored before the environment
// is read.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(home, ".blobtask", "config.yaml")
		if data, err := os.ReadFile(configPath); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.LogConsole = getEnv("BLOBTASK_LOG_CONSOLE", "false") == "true" || cfg.LogConsole
	cfg.Backend = ParseBackend(os.Getenv("BLOBTASK_BACKEND_CONFIG"))
	if appID := os.Getenv("BLOBTASK_APP_ID"); appID != "" {
		cfg.AppID = appID
	}
	cfg.AuthToken = os.Getenv("BLOBTASK_AUTH_TOKEN")

	return cfg, nil
}

// ParseBackend parses the backend config blob. Malformed JSON yields a
// zero Backend, which fails Valid() and selects local mode.
func ParseBackend(blob string) Backend {
	var b Backend
	if strings.TrimSpace(blob) == "" {
		return b
	}
	if err := json.Unmarshal([]byte(blob), &b); err != nil {
		return Backend{}
	}
	return b
}

// Save writes the yaml-backed preferences to ~/.blobtask/config.yaml
func (c *Config) Save() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(home, ".blobtask")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
