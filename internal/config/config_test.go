package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, "shortify.db", cfg.Database.Path)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, int64(10), cfg.RateLimit.Capacity)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("LOG_JSON", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Logging.JSON)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing JWT secret",
			env:     map[string]string{},
			wantErr: "JWT_SECRET is required",
		},
		{
			name: "unknown cache backend",
			env: map[string]string{
				"JWT_SECRET":    "test-secret",
				"CACHE_BACKEND": "memcached",
			},
			wantErr: "unknown cache backend",
		},
		{
			name: "invalid rate limit capacity",
			env: map[string]string{
				"JWT_SECRET":          "test-secret",
				"RATE_LIMIT_CAPACITY": "0",
			},
			wantErr: "RATE_LIMIT_CAPACITY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	log := NewLogger(LoggingConfig{Level: "debug", JSON: true})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = NewLogger(LoggingConfig{Level: "not-a-level"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
