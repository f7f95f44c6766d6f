package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable with GOMP_STORE
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds all configuration for the client and the stub API server
type Config struct {
	// API client configuration
	APIBaseURL  string
	HTTPTimeout time.Duration

	// List view configuration
	PageSize int
	Columns  int

	// Local/session storage configuration
	StoreBackend string
	StateDir     string
	SessionID    string
	SessionTTL   time.Duration

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Stub server configuration
	ServerHost string
	ServerPort string
	JWTSecret  string
}

// LoadConfig creates a new Config from environment variables, applying
// defaults for anything unset, and validates it
func LoadConfig() (*Config, error) {
	cfg := &Config{
		APIBaseURL:    getEnv("GOMP_API_URL", "http://localhost:5000/api/v1"),
		StoreBackend:  getEnv("GOMP_STORE", StoreFile),
		StateDir:      getEnv("GOMP_STATE_DIR", defaultStateDir()),
		SessionID:     getEnv("GOMP_SESSION_ID", "default"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),
		ServerHost:    getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:    getEnv("SERVER_PORT", "5000"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	var err error
	if cfg.PageSize, err = getEnvInt("GOMP_PAGE_SIZE", 12); err != nil {
		return nil, err
	}
	if cfg.Columns, err = getEnvInt("GOMP_COLUMNS", 3); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getEnvDuration("GOMP_HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getEnvDuration("GOMP_SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	if GetEnvironment() != Production && cfg.JWTSecret == "" {
		cfg.JWTSecret = "gomp-dev-secret"
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// APIAddress is the address the stub server listens on
func (c *Config) APIAddress() string {
	return c.ServerHost + ":" + c.ServerPort
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("not an integer: %q", v)}
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("not a duration: %q", v)}
	}
	return d, nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "gomp")
	}
	return ".gomp"
}
