package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults apply to missing keys", func(t *testing.T) {
		// Given: a config file that only sets the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: it is loaded
		conf, err := Load(path)

		// Then: everything else has its default
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "user_session", conf.Session.CookieName)
		assert.Equal(t, 24*time.Hour, conf.Session.TTL)
		assert.Equal(t, time.Minute, conf.Session.SweepInterval)
	})

	t.Run("File values are read", func(t *testing.T) {
		path := writeConfig(t, `
http-port: "8080"
storage: redis
redis:
  host: cache
  port: "6380"
session:
  cookie-name: ttt
  ttl: 30m
  sweep-interval: 10s
cors:
  allowed-origins:
    - http://example.com
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, "ttt", conf.Session.CookieName)
		assert.Equal(t, 30*time.Minute, conf.Session.TTL)
		assert.Equal(t, 10*time.Second, conf.Session.SweepInterval)
		assert.Equal(t, []string{"http://example.com"}, conf.CORS.AllowedOrigins)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "http-port: \"8080\"\n")
		t.Setenv("HTTP_PORT", "7070")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
	})

	t.Run("Unknown storage is rejected", func(t *testing.T) {
		path := writeConfig(t, "storage: mongo\n")

		_, err := Load(path)

		assert.ErrorContains(t, err, "unknown storage")
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		assert.Error(t, err)
	})
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
	})
}
