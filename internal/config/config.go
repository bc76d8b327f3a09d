// Package config loads the service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds the full service configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	GeoIP     GeoIPConfig
	Logging   LoggingConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port    string
	BaseURL string // public base used to build short URLs
}

// DatabaseConfig configures the sqlite registry.
type DatabaseConfig struct {
	Path string
}

// CacheConfig selects and configures the resolution cache.
type CacheConfig struct {
	Backend   string // "redis" or "memory"
	RedisAddr string
	TTL       time.Duration
}

// AuthConfig configures session signing and the Google OAuth client.
type AuthConfig struct {
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	SecureCookie       bool
}

// RateLimitConfig configures the create-path rate limiter.
type RateLimitConfig struct {
	Enabled    bool
	Capacity   int64
	RefillRate int64 // tokens per second
}

// GeoIPConfig points at an optional MaxMind database.
type GeoIPConfig struct {
	DBPath string
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string
	JSON  bool
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:    getenv("SERVER_PORT", "8080"),
			BaseURL: getenv("SERVER_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Path: getenv("DATABASE_PATH", "shortify.db"),
		},
		Cache: CacheConfig{
			Backend:   getenv("CACHE_BACKEND", "memory"),
			RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
			TTL:       getduration("CACHE_TTL", time.Hour),
		},
		Auth: AuthConfig{
			JWTSecret:          os.Getenv("JWT_SECRET"),
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  getenv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
			SecureCookie:       getbool("SECURE_COOKIE", false),
		},
		RateLimit: RateLimitConfig{
			Enabled:    getbool("RATE_LIMIT_ENABLED", true),
			Capacity:   getint("RATE_LIMIT_CAPACITY", 10),
			RefillRate: getint("RATE_LIMIT_REFILL_RATE", 1),
		},
		GeoIP: GeoIPConfig{
			DBPath: os.Getenv("GEOIP_DB_PATH"),
		},
		Logging: LoggingConfig{
			Level: getenv("LOG_LEVEL", "info"),
			JSON:  getbool("LOG_JSON", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Cache.Backend != "redis" && c.Cache.Backend != "memory" {
		return errors.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.RateLimit.Enabled && c.RateLimit.Capacity < 1 {
		return errors.New("RATE_LIMIT_CAPACITY must be at least 1")
	}
	return nil
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getint(key string, fallback int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getbool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getduration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
