package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, BackendFile, cfg.AccountsBackend)
	assert.Equal(t, "users.json", cfg.AccountsFile)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.RxNavTimeout)
	assert.Equal(t, 8081, cfg.MCPPort)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.False(t, cfg.Development)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ACCOUNTS_BACKEND", "sqlite")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, http://localhost:3000")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.AccountsBackend)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Development)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("ACCOUNTS_BACKEND", "postgres")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ACCOUNTS_BACKEND", "file")
	t.Setenv("RXNAV_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)
}
