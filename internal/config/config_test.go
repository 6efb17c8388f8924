package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:5006", cfg.Server.URL)
	assert.Empty(t, cfg.Session.Room)
	assert.Equal(t, 3*time.Second, cfg.Session.ReconnectDelay)
	assert.Equal(t, time.Second, cfg.Session.TypingDebounce)
	assert.Equal(t, 6*time.Second, cfg.Session.TypingTTL)
	assert.Equal(t, float64(5), cfg.Session.SendRate)
	assert.Equal(t, 10, cfg.Session.SendBurst)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadFromEnvironment(t *testing.T) {
	os.Setenv("GUMMY_SERVER_URL", "https://chat.example.com")
	os.Setenv("GUMMY_ROOM", "abc12345")
	os.Setenv("GUMMY_RECONNECT_DELAY", "500ms")
	defer func() {
		os.Unsetenv("GUMMY_SERVER_URL")
		os.Unsetenv("GUMMY_ROOM")
		os.Unsetenv("GUMMY_RECONNECT_DELAY")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://chat.example.com", cfg.Server.URL)
	assert.Equal(t, "abc12345", cfg.Session.Room)
	assert.Equal(t, 500*time.Millisecond, cfg.Session.ReconnectDelay)
	// Untouched fields keep their defaults
	assert.Equal(t, time.Second, cfg.Session.TypingDebounce)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gummy.yaml")
	data := []byte(`
server:
  url: http://10.0.0.2:5006
session:
  room: roomfile
  nickname: alice
logging:
  level: debug
  development: true
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.2:5006", cfg.Server.URL)
	assert.Equal(t, "roomfile", cfg.Session.Room)
	assert.Equal(t, "alice", cfg.Session.Nickname)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad scheme", func(c *Config) { c.Server.URL = "ftp://host" }, true},
		{"missing host", func(c *Config) { c.Server.URL = "http://" }, true},
		{"zero reconnect delay", func(c *Config) { c.Session.ReconnectDelay = 0 }, true},
		{"zero debounce", func(c *Config) { c.Session.TypingDebounce = 0 }, true},
		{"zero send rate", func(c *Config) { c.Session.SendRate = 0 }, true},
		{"zero send burst", func(c *Config) { c.Session.SendBurst = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
