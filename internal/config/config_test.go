package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REDIS_ENABLED", "")

	cfg := FromEnv()
	require.NotNil(t, cfg)
	assert.Equal(t, ":4000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "slidesync:events", cfg.Redis.Channel)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("REDIS_ENABLED", "yes")
	t.Setenv("WS_WRITE_TIMEOUT", "3")
	t.Setenv("MONGO_TIMEOUT", "250ms")
	t.Setenv("CREATE_RATE_LIMIT", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, ":8081", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 3*time.Second, cfg.WebSocket.WriteTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Mongo.Timeout)
	assert.Equal(t, 30, cfg.RateLimit.CreateMax)
}

func TestNormalizePort(t *testing.T) {
	assert.Equal(t, ":4000", normalizePort("4000"))
	assert.Equal(t, "0.0.0.0:4000", normalizePort("0.0.0.0:4000"))
}
