package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "ENV", "HTTP_ADDR", "PORT", "DATABASE_URL", "MONGODB_URI",
		"MONGODB_DATABASE", "MONGODB_CONNECT_TIMEOUT", "REDIS_URL", "SESSION_SECRET",
		"SESSION_TTL", "SESSION_SWEEP_INTERVAL", "COOKIE_SECURE",
		"CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, "file:manvan.db", cfg.DatabaseURL)
	assert.Empty(t, cfg.MongoURI)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 15*time.Minute, cfg.SessionSweepInterval)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_PortFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "forever")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_TTL")
}

func TestFromEnv_NonPositiveDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SWEEP_INTERVAL", "0s")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnv_ProdRejectsDefaultSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("DATABASE_URL", "postgres://db/manvan")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestFromEnv_ProdRequiresSecureCookie(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SESSION_SECRET", "a-long-enough-production-secret")
	t.Setenv("DATABASE_URL", "postgres://db/manvan")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COOKIE_SECURE")
}

func TestFromEnv_ProdValid(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SESSION_SECRET", "a-long-enough-production-secret")
	t.Setenv("COOKIE_SECURE", "yes")
	t.Setenv("MONGODB_URI", "mongodb://mongo:27017")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "manvan", cfg.MongoDatabase)
}
