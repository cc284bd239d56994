package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SessionStoreKind selects where the signed-in session is persisted.
type SessionStoreKind string

const (
	SessionStoreFile   SessionStoreKind = "file"
	SessionStoreSQLite SessionStoreKind = "sqlite"
	SessionStoreMemory SessionStoreKind = "memory"
)

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Store SessionStoreKind
	Path  string
	// Key seals the file store with secretbox when set. 32 bytes.
	Key []byte
}

type ObservabilityConfig struct {
	ServiceName  string
	MetricsAddr  string
	PprofAddr    string
	OTLPEndpoint string
}

type Config struct {
	Backend        BackendConfig
	Session        SessionConfig
	Observability  ObservabilityConfig
	ServerHost     string
	ServerPort     string
	CacheTTL       time.Duration
	LogLevel       string
	// AllowedOrigins may read pages cross-origin. Empty means same-origin only.
	AllowedOrigins []string
}

func Load() (*Config, error) {
	timeout, err := getEnvDuration("API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnvOrDefault("CHECKPOINT_API_URL", "http://localhost:3000"), "/"),
			Timeout: timeout,
		},
		Session: SessionConfig{
			Store: SessionStoreKind(strings.ToLower(getEnvOrDefault("SESSION_STORE", string(SessionStoreFile)))),
		},
		Observability: ObservabilityConfig{
			ServiceName:  getEnvOrDefault("OTEL_SERVICE_NAME", "checkpoint-web"),
			MetricsAddr:  getEnvOrDefault("METRICS_ADDR", ":9092"),
			PprofAddr:    getEnvAllowEmpty("PPROF_ADDR", ":6060"),
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		ServerHost: getEnvOrDefault("SERVER_HOST", "127.0.0.1"),
		ServerPort: getEnvOrDefault("SERVER_PORT", "8091"),
		CacheTTL:   cacheTTL,
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),

		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("CHECKPOINT_API_URL must be an absolute URL, got %q", cfg.Backend.BaseURL)
	}

	switch cfg.Session.Store {
	case SessionStoreFile:
		cfg.Session.Path = getEnvOrDefault("SESSION_PATH", defaultSessionPath("session.json"))
	case SessionStoreSQLite:
		cfg.Session.Path = getEnvOrDefault("SESSION_PATH", defaultSessionPath("session.db"))
	case SessionStoreMemory:
	default:
		return nil, fmt.Errorf("SESSION_STORE must be one of file, sqlite, memory; got %q", cfg.Session.Store)
	}

	if raw := os.Getenv("CHECKPOINT_SESSION_KEY"); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("CHECKPOINT_SESSION_KEY must be 64 hex characters")
		}
		cfg.Session.Key = key
	}

	return cfg, nil
}

// Addr is the listen address of the frontend.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// String masks the session key.
func (c *Config) String() string {
	key := "unset"
	if len(c.Session.Key) > 0 {
		key = "*** (masked) ***"
	}
	return fmt.Sprintf("Config{Addr: %s, Backend: %s, SessionStore: %s (%s), SessionKey: %s}",
		c.Addr(), c.Backend.BaseURL, c.Session.Store, c.Session.Path, key)
}

func defaultSessionPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "checkpoint", name)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimRight(strings.TrimSpace(part), "/"); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvAllowEmpty lets an explicitly empty variable switch a listener off.
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
