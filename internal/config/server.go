package config

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultServerMaxUploadBytes is the server-side upload ceiling.
const DefaultServerMaxUploadBytes int64 = 10 * 1024 * 1024

// ServerConfig configures `jobmatch serve`.
type ServerConfig struct {
	Port           int
	DatabaseURL    string
	GeminiAPIKey   string
	MaxUploadBytes int64
	// StrictAI reports model failures as 503/500 instead of masking them
	// with keyword extraction.
	StrictAI       bool
	AllowedOrigins []string
	JWT            *JWTConfig
}

// LoadServerConfig reads the server settings from the environment.
func LoadServerConfig(getenv func(string) string) (*ServerConfig, error) {
	jwtCfg, err := NewJWTConfig(getenv)
	if err != nil {
		return nil, err
	}

	cfg := &ServerConfig{
		Port:           8080,
		DatabaseURL:    getenv("DATABASE_URL"),
		GeminiAPIKey:   getenv("GEMINI_API_KEY"),
		MaxUploadBytes: DefaultServerMaxUploadBytes,
		AllowedOrigins: []string{"*"},
		JWT:            jwtCfg,
	}

	if raw := getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT: %q", raw)
		}
		cfg.Port = port
	}
	if raw := getenv("MAX_UPLOAD_MB"); raw != "" {
		mb, err := strconv.Atoi(raw)
		if err != nil || mb < 1 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %q", raw)
		}
		cfg.MaxUploadBytes = int64(mb) * 1024 * 1024
	}
	if v, err := strconv.ParseBool(getenv("STRICT_AI")); err == nil {
		cfg.StrictAI = v
	}
	if raw := getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		cfg.AllowedOrigins = nil
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}
	return cfg, nil
}
