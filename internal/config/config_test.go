package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearConfigEnv нейтрализует переменные конфигурации на время теста:
// пустое значение для Load неотличимо от отсутствующего, а t.Setenv
// восстанавливает окружение после теста.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DEBUG", "FRONTEND_URL",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_ENABLED",
		"HISTORY_LIMIT", "SUMMARY_CACHE_TTL",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearConfigEnv(t)

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.False(t, cfg.App.Debug)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "equipdash", cfg.DB.DBName)
	assert.Equal(t, "disable", cfg.DB.SSLMode)

	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, "6379", cfg.Redis.Port)
	assert.True(t, cfg.Redis.Enabled)

	assert.Equal(t, 5, cfg.History.Limit)
	assert.Equal(t, 5*time.Minute, cfg.History.CacheTTL)

	assert.Equal(t, 10, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("HISTORY_LIMIT", "3")
	t.Setenv("SUMMARY_CACHE_TTL", "30s")
	t.Setenv("REDIS_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 3, cfg.History.Limit)
	assert.Equal(t, 30*time.Second, cfg.History.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "many")
	t.Setenv("DEBUG", "probably")
	t.Setenv("SUMMARY_CACHE_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 5, cfg.History.Limit)
	assert.False(t, cfg.App.Debug)
	assert.Equal(t, 5*time.Minute, cfg.History.CacheTTL)
}
