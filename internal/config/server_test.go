package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfig(t *testing.T) {
	cfg, err := LoadServerConfig(envMap(map[string]string{
		"JWT_SECRET":           testSecret,
		"DATABASE_URL":         "postgres://localhost/jobmatch",
		"PORT":                 "9090",
		"MAX_UPLOAD_MB":        "2",
		"STRICT_AI":            "true",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadBytes)
	assert.True(t, cfg.StrictAI)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	cfg, err := LoadServerConfig(envMap(map[string]string{
		"JWT_SECRET":   testSecret,
		"DATABASE_URL": "postgres://localhost/jobmatch",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DefaultServerMaxUploadBytes, cfg.MaxUploadBytes)
	assert.False(t, cfg.StrictAI)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadServerConfig_Errors(t *testing.T) {
	base := map[string]string{"JWT_SECRET": testSecret, "DATABASE_URL": "postgres://x"}
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing database", "DATABASE_URL", ""},
		{"bad port", "PORT", "99999"},
		{"bad upload size", "MAX_UPLOAD_MB", "zero"},
		{"missing jwt secret", "JWT_SECRET", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{}
			for k, v := range base {
				env[k] = v
			}
			env[tt.key] = tt.val
			_, err := LoadServerConfig(envMap(env))
			assert.Error(t, err)
		})
	}
}
