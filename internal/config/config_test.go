package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "clubportal", cfg.Database.DBName)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxUploadBytes())
	assert.Equal(t, 5*time.Minute, cfg.Session.CacheTTL)
	assert.Equal(t, "0 */15 * * * *", cfg.Sweep.Schedule)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestFromEnvModePrefix(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_DB_NAME", "portal_prod")
	t.Setenv("PROD_JWT_SECRET", "s3cret")
	t.Setenv("DEV_DB_NAME", "portal_dev")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "portal_prod", cfg.Database.DBName)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestFromEnvRejectsDefaultSecretInProd(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_JWT_SECRET", "")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvInvalidValues(t *testing.T) {
	t.Setenv("APP_MODE", "staging")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("APP_MODE", "dev")
	t.Setenv("STORAGE_DRIVER", "ftp")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestDurationFallback(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("SESSION_CACHE_TTL", "not-a-duration")
	t.Setenv("ORPHAN_SWEEP_GRACE", "30m")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Session.CacheTTL)
	assert.Equal(t, 30*time.Minute, cfg.Sweep.Grace)
}
