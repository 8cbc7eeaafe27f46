package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Defaults for the meal plan store and shortage engine
const (
	DefaultRemoteTimeout   = 8 * time.Second
	DefaultWarningLimit    = 20
	DefaultDeleteBatchSize = 200
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration. Without a host the local plan cache is kept in memory.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Price sheets
	PriceBucket string
	AWSRegion   string

	// Meal plan store tuning
	RemoteTimeout   time.Duration
	WarningLimit    int
	DeleteBatchSize int
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	// Load configuration based on environment
	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := loadTuning(cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI environment using ONLY environment variables
func loadCIConfig(cfg *Config) error {
	loadPlain(cfg, os.Getenv)

	// CI secrets are injected as TEST_* variables
	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	if cfg.DBPassword == "" && cfg.DBDriver == DriverPostgres {
		return fmt.Errorf("TEST_DB_PASSWORD environment variable is required in CI environment")
	}
	cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("TEST_REDIS_URL")

	return nil
}

// loadDevConfig loads configuration for development: a local .env file,
// then environment variables, falling back to Docker secrets.
func loadDevConfig(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	loadPlain(cfg, envOrSecret)
	cfg.DBPassword = envOrSecret("DB_PASSWORD")
	cfg.JWTSecret = envOrSecret("JWT_SECRET")
	cfg.RedisPassword = envOrSecret("REDIS_PASSWORD")
	if cfg.RedisURL == "" {
		cfg.RedisURL = envOrSecret("REDIS_URL")
	}

	return nil
}

// loadProdConfig loads configuration for production. Credentials come ONLY
// from Docker secrets.
func loadProdConfig(cfg *Config) error {
	loadPlain(cfg, envOrSecret)
	cfg.DBPassword = readSecret("db_password")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.RedisPassword = readSecret("redis_password")

	return nil
}

// loadPlain fills the non-sensitive settings through lookup.
func loadPlain(cfg *Config, lookup func(string) string) {
	cfg.ServerPort = withDefault(lookup("SERVER_PORT"), "8080")
	cfg.ServerHost = lookup("SERVER_HOST")
	cfg.CORSOrigins = splitList(lookup("CORS_ORIGINS"))

	cfg.DBDriver = strings.ToLower(withDefault(lookup("DB_DRIVER"), DriverPostgres))
	cfg.SQLitePath = lookup("SQLITE_PATH")
	cfg.DBHost = lookup("DB_HOST")
	cfg.DBPort = withDefault(lookup("DB_PORT"), "5432")
	cfg.DBUser = lookup("DB_USER")
	cfg.DBName = lookup("DB_NAME")
	cfg.DBSSLMode = withDefault(lookup("DB_SSL_MODE"), "disable")

	cfg.RedisHost = lookup("REDIS_HOST")
	cfg.RedisPort = withDefault(lookup("REDIS_PORT"), "6379")
	cfg.RedisURL = lookup("REDIS_URL")
	cfg.RedisDB = 0 // This is a constant, not a secret

	cfg.PriceBucket = lookup("PRICE_BUCKET")
	cfg.AWSRegion = lookup("AWS_REGION")
}

// loadTuning reads the numeric settings, which are never secrets.
func loadTuning(cfg *Config) error {
	cfg.RemoteTimeout = DefaultRemoteTimeout
	cfg.WarningLimit = DefaultWarningLimit
	cfg.DeleteBatchSize = DefaultDeleteBatchSize

	if v := os.Getenv("MEALPLAN_REMOTE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return ValidationError{Field: "MEALPLAN_REMOTE_TIMEOUT", Message: fmt.Sprintf("invalid duration %q", v)}
		}
		cfg.RemoteTimeout = d
	}
	if v := os.Getenv("MEALPLAN_WARNING_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return ValidationError{Field: "MEALPLAN_WARNING_LIMIT", Message: fmt.Sprintf("invalid positive integer %q", v)}
		}
		cfg.WarningLimit = n
	}
	if v := os.Getenv("MEALPLAN_DELETE_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return ValidationError{Field: "MEALPLAN_DELETE_BATCH_SIZE", Message: fmt.Sprintf("invalid positive integer %q", v)}
		}
		cfg.DeleteBatchSize = n
	}
	return nil
}

// envOrSecret reads an environment variable, falling back to the Docker
// secret with the lower-cased name.
func envOrSecret(name string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return readSecret(strings.ToLower(name))
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UsesRedis reports whether a Redis server is configured for the local plan cache.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// LogSummary logs the non-sensitive settings.
func (c *Config) LogSummary() {
	log.Printf("environment=%s driver=%s server=%s:%s redis=%t price_bucket=%q remote_timeout=%s",
		GetEnvironment(), c.DBDriver, c.ServerHost, c.ServerPort, c.UsesRedis(), c.PriceBucket, c.RemoteTimeout)
}
