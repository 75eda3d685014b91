// AngelaMos | 2026
// config_test.go

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_USER", "referral")
	t.Setenv("DATABASE_NAME", "referral")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "referral-service", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 30, cfg.JWT.AccessTokenMinutes)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpire())
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Otel.Enabled)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_TIME", "45")
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.JWT.AccessTokenMinutes)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.IsProduction())
}

func TestLoadMissingSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SECRET_KEY", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
}

func TestLoadMissingDatabaseHost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_HOST", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_HOST")
}

func TestLoadMissingConfigFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "pw",
		Name:     "referral",
		SSLMode:  "require",
	}

	assert.Equal(
		t,
		"postgres://app:pw@db.internal:5433/referral?sslmode=require",
		cfg.DSN(),
	)
}

func TestServerAddress(t *testing.T) {
	t.Parallel()

	cfg := ServerConfig{Host: "0.0.0.0", Port: 8000}
	assert.Equal(t, "0.0.0.0:8000", cfg.Address())
}
