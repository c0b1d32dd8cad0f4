package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the default config directory at an empty temp home
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".vibetrack", "vibetrack.db"), cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, BackendSQLite, cfg.Recovery.Backend)
	assert.Equal(t, "active_timer_state_v1", cfg.Recovery.Key)
	assert.Equal(t, 5*time.Second, cfg.Recovery.Redis.DialTimeout)
	assert.Equal(t, "127.0.0.1:9477", cfg.Server.Listen)
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
storage:
  path: /tmp/study.db
logging:
  level: debug
  format: text
recovery:
  backend: redis
  redis:
    addr: 10.0.0.5:6379
    db: 2
time:
  location: Europe/Berlin
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/study.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, BackendRedis, cfg.Recovery.Backend)
	assert.Equal(t, "10.0.0.5:6379", cfg.Recovery.Redis.Addr)
	assert.Equal(t, 2, cfg.Recovery.Redis.DB)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "logging:\n  level: debug\n")
	t.Setenv("VIBETRACK_LOGGING_LEVEL", "warn")
	t.Setenv("VIBETRACK_RECOVERY_BACKEND", "redis")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, BackendRedis, cfg.Recovery.Backend)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"log level", "logging:\n  level: verbose\n"},
		{"log format", "logging:\n  format: xml\n"},
		{"backend", "recovery:\n  backend: etcd\n"},
		{"redis without addr", "recovery:\n  backend: redis\n  redis:\n    addr: \"\"\n"},
		{"empty key", "recovery:\n  key: \"\"\n"},
		{"location", "time:\n  location: Mars/Olympus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
