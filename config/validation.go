package config

import (
	"fmt"
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

// ValidateConfig checks that every value the server cannot run without
// is present. Development and test environments get permissive
// defaults; production requires the sensitive values to be set.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.JWTSecret == "" {
		if IsProduction() {
			errors = append(errors, "jwt_secret secret or JWT_SECRET is required")
		} else {
			cfg.JWTSecret = "dev-secret"
		}
	}

	if IsProduction() {
		if cfg.DBUser == "" {
			errors = append(errors, "db_user secret or DB_USER is required")
		}
		if cfg.DBPassword == "" {
			errors = append(errors, "db_password secret or DB_PASSWORD is required")
		}
		if cfg.DomainName == "" {
			errors = append(errors, "DOMAIN_NAME is required")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
