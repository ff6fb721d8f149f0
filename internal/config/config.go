// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonathan/skill-matcher/internal/skills"
	"github.com/jonathan/skill-matcher/internal/types"
)

// DefaultPort is the HTTP port used when none is configured.
const DefaultPort = 8080

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Server
	Port       int    `json:"port,omitempty"`        // HTTP listen port
	CORSOrigin string `json:"cors_origin,omitempty"` // Access-Control-Allow-Origin value
	MaxBatch   int    `json:"max_batch,omitempty"`   // Max candidates per batch request

	// Matching
	Weights      skills.Weights `json:"weights,omitempty"`       // Category weights, keyed by category name
	RegistryFile string         `json:"registry_file,omitempty"` // YAML or JSON registry seed

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	SQLitePath  string `json:"sqlite_path,omitempty"`  // SQLite file, used when no database_url

	// Logging
	LogJSON  bool `json:"log_json,omitempty"`
	LogDebug bool `json:"log_debug,omitempty"`
}

// ValidationError reports one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
}

// Defaults returns the reference configuration.
func Defaults() Config {
	return Config{
		Port:       DefaultPort,
		CORSOrigin: "*",
		MaxBatch:   types.MaxBatchCandidates,
		Weights:    skills.DefaultWeights(),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return &ValidationError{Field: "port", Message: fmt.Sprintf("must be between 0 and 65535, got %d", c.Port)}
	}
	if c.MaxBatch < 0 || c.MaxBatch > types.MaxBatchCandidates {
		return &ValidationError{Field: "max_batch", Message: fmt.Sprintf("must be between 0 and %d", types.MaxBatchCandidates)}
	}
	if err := c.Weights.Validate(); err != nil {
		return &ValidationError{Field: "weights", Message: err.Error()}
	}
	if c.RegistryFile != "" {
		if _, err := os.Stat(c.RegistryFile); os.IsNotExist(err) {
			return &ValidationError{Field: "registry_file", Message: fmt.Sprintf("file not found: %s", c.RegistryFile)}
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
// Weights are taken as a whole: a partial weight map in the file is kept as is.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}
	if result.MaxBatch == 0 {
		result.MaxBatch = defaults.MaxBatch
	}
	if result.Weights == nil {
		result.Weights = defaults.Weights
	}
	if result.RegistryFile == "" {
		result.RegistryFile = defaults.RegistryFile
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

// ApplyEnv overrides fields from environment variables: PORT, DATABASE_URL,
// SQLITE_PATH, SKILL_REGISTRY_FILE, CORS_ORIGIN, LOG_JSON and LOG_DEBUG.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Port = port
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("SQLITE_PATH"); v != "" {
		c.SQLitePath = v
	}
	if v := getenv("SKILL_REGISTRY_FILE"); v != "" {
		c.RegistryFile = v
	}
	if v := getenv("CORS_ORIGIN"); v != "" {
		c.CORSOrigin = v
	}
	for name, dst := range map[string]*bool{"LOG_JSON": &c.LogJSON, "LOG_DEBUG": &c.LogDebug} {
		if v := getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", name, err)
			}
			*dst = b
		}
	}
	return nil
}
