package mcpserver

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds the MCP server settings, read once from RESTSPEC_*
// environment variables.
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Result limits.
	ResultLimit   int
	MaxLimit      int
	MaxInlineSize int64

	// Network settings.
	AllowPrivateIPs     bool
	AllowPrivateTargets bool
	TargetTimeout       time.Duration
}

var cfg = loadConfig()

// loadConfig reads the environment. Invalid values are logged and replaced
// by their defaults.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:        envBool("RESTSPEC_CACHE_ENABLED", true),
		CacheMaxSize:        envInt("RESTSPEC_CACHE_MAX_SIZE", 20),
		CacheFileTTL:        envDuration("RESTSPEC_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:         envDuration("RESTSPEC_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:     envDuration("RESTSPEC_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval:  envDuration("RESTSPEC_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ResultLimit:         envInt("RESTSPEC_RESULT_LIMIT", 100),
		MaxLimit:            envInt("RESTSPEC_MAX_LIMIT", 1000),
		MaxInlineSize:       int64(envInt("RESTSPEC_MAX_INLINE_SIZE", 1<<20)),
		AllowPrivateIPs:     envBool("RESTSPEC_ALLOW_PRIVATE_IPS", false),
		AllowPrivateTargets: envBool("RESTSPEC_ALLOW_PRIVATE_TARGETS", true),
		TargetTimeout:       envDuration("RESTSPEC_TARGET_TIMEOUT", 30*time.Second),
	}
}

// envValue parses the variable named key, falling back when it is unset or
// rejected by parse.
func envValue[T any](key string, fallback T, parse func(string) (T, error)) T {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := parse(v)
	if err != nil {
		slog.Warn("invalid env var, using default", "key", key, "value", v, "default", fallback, "error", err) //nolint:gosec // G706: values are structured log fields
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	return envValue(key, fallback, strconv.ParseBool)
}

func envInt(key string, fallback int) int {
	return envValue(key, fallback, func(v string) (int, error) {
		n, err := strconv.Atoi(v)
		if err == nil && n <= 0 {
			err = errors.New("must be positive")
		}
		return n, err
	})
}

func envDuration(key string, fallback time.Duration) time.Duration {
	return envValue(key, fallback, func(v string) (time.Duration, error) {
		d, err := time.ParseDuration(v)
		if err == nil && d <= 0 {
			err = errors.New("must be positive")
		}
		return d, err
	})
}
