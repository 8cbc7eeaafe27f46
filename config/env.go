package config

import (
	"os"
	"strings"
)

// Environment selects where configuration is read from and how the service
// behaves on start.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads APP_ENV, falling back to ENV. CI=true overrides both.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	name := os.Getenv("APP_ENV")
	if name == "" {
		name = os.Getenv("ENV")
	}
	return ParseEnvironment(name)
}

// ParseEnvironment maps an environment name to an Environment. Unknown or
// empty names mean development.
func ParseEnvironment(name string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(name))) {
	case Production, "prod":
		return Production
	case Test:
		return Test
	case CI:
		return CI
	default:
		return Development
	}
}

// AutoMigrate reports whether the API applies migrations before serving.
// Production deployments run cmd/migrate as a release step instead.
func (e Environment) AutoMigrate() bool {
	return e != Production
}

// QuietSQL reports whether gorm statement logging is silenced.
func (e Environment) QuietSQL() bool {
	return e == Test || e == CI
}
