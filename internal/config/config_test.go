package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_PORT", "DATA_BACKEND", "ACCESS_TTL", "COOKIE_SECURE", "RATE_LIMIT_PER_MIN", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DataBackend)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 60, cfg.RateLimitPerMin)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Production())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("ACCESS_TTL", "2m")
	t.Setenv("COOKIE_SECURE", "1")
	t.Setenv("RATE_LIMIT_PER_MIN", "5")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test ,")

	cfg := Load()

	assert.True(t, cfg.Production())
	assert.Equal(t, "memory", cfg.DataBackend)
	assert.Equal(t, 2*time.Minute, cfg.AccessTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 5, cfg.RateLimitPerMin)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REFRESH_TTL", "forever")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.RefreshTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 60, cfg.RateLimitPerMin)
}
