package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TASKS_SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./tasks.db", cfg.DatabasePath)
	assert.Equal(t, "test-secret", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TASKS_SECRET_KEY", "test-secret")
	t.Setenv("TASKS_PORT", "9090")
	t.Setenv("TASKS_TOKEN_TTL", "5m")
	t.Setenv("TASKS_BCRYPT_COST", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("TASKS_SECRET_KEY", "")

	// Seeding users needs no signing key, so loading still succeeds.
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.SecretKey)
	assert.Error(t, cfg.RequireSecret())
}

func TestRequireSecret(t *testing.T) {
	t.Setenv("TASKS_SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.RequireSecret())
}

func TestLoad_NonPositiveTTL(t *testing.T) {
	t.Setenv("TASKS_SECRET_KEY", "test-secret")
	t.Setenv("TASKS_TOKEN_TTL", "0s")

	_, err := Load()
	assert.Error(t, err)
}
