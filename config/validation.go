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

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs []ValidationError

	require := func(field, value, message string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: message})
		}
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		require("SQLITE_PATH", cfg.SQLitePath, "required when DB_DRIVER is sqlite")
	case DriverPostgres:
		require("DB_HOST", cfg.DBHost, "required environment variable is not set")
		require("DB_NAME", cfg.DBName, "required environment variable is not set")
		require("DB_USER", cfg.DBUser, "required environment variable is not set")
		if env == CI {
			require("TEST_DB_PASSWORD", cfg.DBPassword, "required in CI environment")
		} else {
			require("db_password", cfg.DBPassword, "secret is required")
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if env == CI {
		require("TEST_JWT_SECRET", cfg.JWTSecret, "required in CI environment")
	} else {
		require("jwt_secret", cfg.JWTSecret, "secret is required")
	}

	if env == Production && cfg.UsesRedis() {
		require("redis_password", cfg.RedisPassword, "secret is required when Redis is configured")
	}

	if len(errs) > 0 {
		lines := make([]string, len(errs))
		for i, e := range errs {
			lines[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
	}

	return nil
}
