// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Identity
	UserID string `json:"user_id,omitempty"` // User UUID (required for DB-based runs)

	// Capability backend
	Variant    string `json:"variant,omitempty"`     // "cloud" (Gemini) or "local" (Ollama)
	APIKey     string `json:"api_key,omitempty"`     // Gemini API key (cloud variant)
	OllamaHost string `json:"ollama_host,omitempty"` // Ollama base URL (local variant)

	// Generation defaults
	Grade         string `json:"grade,omitempty"`
	Subject       string `json:"subject,omitempty"`
	QuestionCount int    `json:"question_count,omitempty"`

	// Behavior
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Server
	ListenAddr string `json:"listen_addr,omitempty"` // HTTP listen address for serve mode
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Variant != "" && c.Variant != "cloud" && c.Variant != "local" {
		return fmt.Errorf("config error: 'variant' must be \"cloud\" or \"local\"")
	}

	if c.QuestionCount < 0 {
		return fmt.Errorf("config error: 'question_count' must be non-negative")
	}
	if c.QuestionCount > 50 {
		return fmt.Errorf("config error: 'question_count' must be at most 50")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.Variant == "" {
		result.Variant = defaults.Variant
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.OllamaHost == "" {
		result.OllamaHost = defaults.OllamaHost
	}
	if result.Grade == "" {
		result.Grade = defaults.Grade
	}
	if result.Subject == "" {
		result.Subject = defaults.Subject
	}
	if result.QuestionCount == 0 {
		result.QuestionCount = defaults.QuestionCount
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
