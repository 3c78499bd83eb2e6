package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, 30*time.Second, cfg.AppRequestTimeout)
	assert.Equal(t, BroadcastLocal, cfg.BroadcastBackend)
	assert.Equal(t, "courtline:match", cfg.BroadcastChannelPrefix)
	assert.Equal(t, "en", cfg.MessageLang)
	assert.Equal(t, 600, cfg.RateLimitPerMinute)
	assert.True(t, cfg.DBAutoMigrate)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("BROADCAST_BACKEND", "redis")
	t.Setenv("MESSAGE_LANG", "es")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://court.example,https://tv.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, BroadcastRedis, cfg.BroadcastBackend)
	assert.Equal(t, []string{"https://court.example", "https://tv.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.AllowOrigin("https://TV.example"))
	assert.False(t, cfg.AllowOrigin("https://evil.example"))
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"backend":    {"BROADCAST_BACKEND", "kafka"},
		"log format": {"LOG_FORMAT", "xml"},
		"rate limit": {"RATE_LIMIT_PER_MINUTE", "0"},
		"language":   {"MESSAGE_LANG", "not a language"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestAllowOriginWildcard(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: []string{"*"}}
	assert.True(t, cfg.AllowOrigin("https://anything.example"))
	var nilCfg *Config
	assert.False(t, nilCfg.AllowOrigin("https://anything.example"))
}
