package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every variable the loader reads and points SECRETS_DIR at
// an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	for _, name := range []string{
		"CI", "APP_ENV", "ENV", "SERVER_PORT", "SERVER_HOST", "CORS_ORIGINS",
		"DB_DRIVER", "SQLITE_PATH", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_URL", "REDIS_PASSWORD", "JWT_SECRET",
		"PRICE_BUCKET", "AWS_REGION",
		"MEALPLAN_REMOTE_TIMEOUT", "MEALPLAN_WARNING_LIMIT", "MEALPLAN_DELETE_BATCH_SIZE",
		"TEST_DB_PASSWORD", "TEST_JWT_SECRET", "TEST_REDIS_PASSWORD", "TEST_REDIS_URL",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	chdir(t, t.TempDir())
	return dir
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0600))
}

func TestLoadConfig(t *testing.T) {
	secrets := isolate(t)
	t.Setenv("ENV", "development")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "mealplan")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://app.example.com")
	writeSecret(t, secrets, "db_password", "postpass")
	writeSecret(t, secrets, "jwt_secret", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// Test database configuration
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "postpass", cfg.DBPassword)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postpass dbname=mealplan sslmode=disable", cfg.DSN())

	// Test JWT configuration
	assert.Equal(t, "test-secret", cfg.JWTSecret)

	// Test Redis configuration
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.True(t, cfg.UsesRedis())

	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, DefaultRemoteTimeout, cfg.RemoteTimeout)
	assert.Equal(t, DefaultWarningLimit, cfg.WarningLimit)
	assert.Equal(t, DefaultDeleteBatchSize, cfg.DeleteBatchSize)
}

func TestLoadConfigSQLiteWithDotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte(
		"DB_DRIVER=sqlite\nSQLITE_PATH=mealplan.db\nJWT_SECRET=dotenv-secret\nMEALPLAN_REMOTE_TIMEOUT=3s\nMEALPLAN_DELETE_BATCH_SIZE=50\n",
	), 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "mealplan.db", cfg.DSN())
	assert.Equal(t, "dotenv-secret", cfg.JWTSecret)
	assert.Equal(t, 3*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 50, cfg.DeleteBatchSize)
	assert.False(t, cfg.UsesRedis())
}

func TestLoadConfigValidation(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "production")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestLoadConfigRejectsBadTuning(t *testing.T) {
	isolate(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "x.db")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("MEALPLAN_WARNING_LIMIT", "zero")

	_, err := LoadConfig()
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "MEALPLAN_WARNING_LIMIT", verr.Field)
}

func TestLoadConfigCI(t *testing.T) {
	isolate(t)
	t.Setenv("CI", "true")
	t.Setenv("DB_HOST", "postgres")
	t.Setenv("DB_USER", "ci")
	t.Setenv("DB_NAME", "mealplan")
	t.Setenv("TEST_JWT_SECRET", "ci-secret")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("TEST_DB_PASSWORD", "ci-pass")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ci-pass", cfg.DBPassword)
	assert.Equal(t, CI, GetEnvironment())
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		name string
		want Environment
	}{
		{"production", Production},
		{" PROD ", Production},
		{"test", Test},
		{"ci", CI},
		{"development", Development},
		{"staging", Development},
		{"", Development},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEnvironment(tt.name))
		})
	}
}

func TestGetEnvironmentPrefersAppEnv(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())

	t.Setenv("APP_ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.False(t, GetEnvironment().AutoMigrate())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
	assert.True(t, GetEnvironment().AutoMigrate())
	assert.True(t, GetEnvironment().QuietSQL())
}
