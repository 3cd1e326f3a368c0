package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultJWTSecret is the fallback signing secret used when
// LOGLENS_JWT_SECRET is unset. Running with it is a deployment
// misconfiguration; main logs a warning when it is in effect.
const DefaultJWTSecret = "default-dev-secret-do-not-use-in-prod"

// Config holds all configuration for the LogLens server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Ingest   IngestConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type IngestConfig struct {
	RateLimitPerMin int
}

// Load reads configuration from environment variables and returns a validated
// Config. Returns an error if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("LOGLENS_PORT", 8080),
			Env:  envString("LOGLENS_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Auth: AuthConfig{
			JWTSecret: envString("LOGLENS_JWT_SECRET", DefaultJWTSecret),
			TokenTTL:  envDuration("LOGLENS_TOKEN_TTL", 24*time.Hour),
		},
		Ingest: IngestConfig{
			RateLimitPerMin: envInt("LOGLENS_RATE_LIMIT_PER_MIN", 600),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UsingDefaultSecret reports whether the insecure fallback signing secret is
// in effect.
func (c *Config) UsingDefaultSecret() bool {
	return c.Auth.JWTSecret == DefaultJWTSecret
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("LOGLENS_TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
