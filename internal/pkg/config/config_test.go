package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"CHECKPOINT_API_URL", "API_TIMEOUT", "CACHE_TTL", "SESSION_STORE", "SESSION_PATH",
		"CHECKPOINT_SESSION_KEY", "SERVER_HOST", "SERVER_PORT", "LOG_LEVEL", "PPROF_ADDR",
		"CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, SessionStoreFile, cfg.Session.Store)
	assert.Equal(t, "session.json", filepath.Base(cfg.Session.Path))
	assert.Equal(t, "127.0.0.1:8091", cfg.Addr())
	assert.Empty(t, cfg.Session.Key)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHECKPOINT_API_URL", "https://api.checkpoint.test/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("SESSION_STORE", "sqlite")
	t.Setenv("SESSION_PATH", "/tmp/cp.db")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.checkpoint.test", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, SessionStoreSQLite, cfg.Session.Store)
	assert.Equal(t, "/tmp/cp.db", cfg.Session.Path)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"relative backend url", "CHECKPOINT_API_URL", "/api"},
		{"bad timeout", "API_TIMEOUT", "soon"},
		{"unknown store", "SESSION_STORE", "redis"},
		{"short key", "CHECKPOINT_SESSION_KEY", "abcd"},
		{"non hex key", "CHECKPOINT_SESSION_KEY", "zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestString_MasksKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHECKPOINT_SESSION_KEY", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Session.Key, 32)
	assert.NotContains(t, cfg.String(), "0001020304")
	assert.Contains(t, cfg.String(), "masked")
}

func TestLoad_PprofAddr(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Observability.PprofAddr, "an empty PPROF_ADDR disables profiling")

	t.Setenv("PPROF_ADDR", "127.0.0.1:6061")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6061", cfg.Observability.PprofAddr)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example/ ,,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
