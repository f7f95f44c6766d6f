package config

import (
	"os"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment. CI=true always wins,
// otherwise GOMP_ENV and then ENV are consulted.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	env := os.Getenv("GOMP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	switch Environment(env) {
	case Production, Test:
		return Environment(env)
	default:
		return Development
	}
}

// IsProduction returns true if the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}
