// Package config provides configuration loading and validation for the CLI
// and the API server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultAPIBaseURL is the extraction service used when none is configured.
	DefaultAPIBaseURL = "http://localhost:8080"
	// DefaultMaxUploadBytes is the client-side upload ceiling.
	DefaultMaxUploadBytes int64 = 5 * 1024 * 1024
	// DefaultSubmitTimeoutSeconds bounds the upload call.
	DefaultSubmitTimeoutSeconds = 120
	// DefaultModelTimeoutSeconds bounds the client-side model call.
	DefaultModelTimeoutSeconds = 60
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, the environment or CLI flags.
type Config struct {
	APIBaseURL   string `json:"api_base_url,omitempty" validate:"required,url"`     // Extraction service base URL
	Token        string `json:"token,omitempty"`                                    // Bearer token for the service
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`                           // Enables the client-side fallback
	Model        string `json:"model,omitempty" validate:"omitempty,max=100"`       // Overrides the client-side model
	TelemetryDB  string `json:"telemetry_db,omitempty"`                             // sqlite path; empty disables the sqlite store

	// Limits
	MaxUploadBytes       int64 `json:"max_upload_bytes,omitempty" validate:"gte=0,lte=104857600"`
	SubmitTimeoutSeconds int   `json:"submit_timeout_seconds,omitempty" validate:"gte=0,lte=3600"`
	ModelTimeoutSeconds  int   `json:"model_timeout_seconds,omitempty" validate:"gte=0,lte=3600"`

	// Behavior
	AcceptFallback bool `json:"accept_fallback,omitempty"` // Use the client-side model without asking
	Verbose        bool `json:"verbose,omitempty"`         // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBaseURL:           DefaultAPIBaseURL,
		MaxUploadBytes:       DefaultMaxUploadBytes,
		SubmitTimeoutSeconds: DefaultSubmitTimeoutSeconds,
		ModelTimeoutSeconds:  DefaultModelTimeoutSeconds,
	}
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

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if result.Token == "" {
		result.Token = defaults.Token
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.TelemetryDB == "" {
		result.TelemetryDB = defaults.TelemetryDB
	}

	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.SubmitTimeoutSeconds == 0 {
		result.SubmitTimeoutSeconds = defaults.SubmitTimeoutSeconds
	}
	if result.ModelTimeoutSeconds == 0 {
		result.ModelTimeoutSeconds = defaults.ModelTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv overlays values from the environment. Set variables win over the
// file and the defaults.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("JOBMATCH_API_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := getenv("JOBMATCH_TOKEN"); v != "" {
		c.Token = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := getenv("JOBMATCH_MODEL"); v != "" {
		c.Model = v
	}
	if v := getenv("JOBMATCH_TELEMETRY_DB"); v != "" {
		c.TelemetryDB = v
	}
	if v, err := strconv.ParseBool(getenv("JOBMATCH_ACCEPT_FALLBACK")); err == nil {
		c.AcceptFallback = v
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// SubmitTimeout returns the upload timeout.
func (c *Config) SubmitTimeout() time.Duration {
	return time.Duration(c.SubmitTimeoutSeconds) * time.Second
}

// ModelTimeout returns the client-side model timeout.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.ModelTimeoutSeconds) * time.Second
}
