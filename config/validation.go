package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration for the current environment and
// reports every problem at once
func ValidateConfig(cfg *Config) error {
	var errors []string

	if u, err := url.Parse(cfg.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{Field: "GOMP_API_URL", Message: "must be an absolute URL"}.Error())
	}
	if cfg.PageSize <= 0 {
		errors = append(errors, ValidationError{Field: "GOMP_PAGE_SIZE", Message: "must be greater than zero"}.Error())
	}
	if cfg.Columns <= 0 {
		errors = append(errors, ValidationError{Field: "GOMP_COLUMNS", Message: "must be greater than zero"}.Error())
	}

	switch cfg.StoreBackend {
	case StoreMemory:
	case StoreFile:
		if cfg.StateDir == "" {
			errors = append(errors, ValidationError{Field: "GOMP_STATE_DIR", Message: "required for the file store"}.Error())
		}
	case StoreRedis:
		if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
			errors = append(errors, ValidationError{Field: "REDIS_URL", Message: "REDIS_URL or REDIS_HOST/REDIS_PORT required for the redis store"}.Error())
		}
	default:
		errors = append(errors, ValidationError{Field: "GOMP_STORE", Message: fmt.Sprintf("unknown store %q", cfg.StoreBackend)}.Error())
	}

	// Production stub servers must not fall back to the development secret
	if GetEnvironment() == Production && cfg.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET environment variable is required in production")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
