package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "token", cfg.Session.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.MaxAge)
	assert.Equal(t, 15*time.Minute, cfg.PasswordReset.TokenTTL)
	assert.Equal(t, DriverMemory, cfg.Cache.Driver)
	assert.Equal(t, ResetModeBackend, cfg.PasswordReset.Mode)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.NeedsRedis())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_API_URL", "http://api.internal:9000/")
	t.Setenv("CACHE_DRIVER", "REDIS")
	t.Setenv("APP_ENV", "production")
	t.Setenv("BACKEND_TIMEOUT", "not-a-duration")

	cfg, err := load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:9000", cfg.Backend.URL)
	assert.Equal(t, DriverRedis, cfg.Cache.Driver)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.IsDev())
	assert.True(t, cfg.NeedsRedis())
}

func TestLoad_RejectsUnknownDrivers(t *testing.T) {
	t.Setenv("PASSWORD_RESET_STORE", "postgres")

	_, err := load(missingEnvFile(t))
	assert.Error(t, err)
}
