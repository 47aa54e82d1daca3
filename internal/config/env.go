package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Environment variables read by ApplyEnv.
const (
	EnvTimeout      = "APIFLOW_TIMEOUT"
	EnvMaxFileSize  = "APIFLOW_MAX_FILE_SIZE"
	EnvUserAgent    = "APIFLOW_USER_AGENT"
	EnvInsecure     = "APIFLOW_INSECURE_SKIP_VERIFY"
	EnvCacheEnabled = "APIFLOW_CACHE_ENABLED"
	EnvCachePath    = "APIFLOW_CACHE_PATH"
	EnvCacheTTL     = "APIFLOW_CACHE_TTL"
	EnvResolveDepth = "APIFLOW_RESOLVE_DEPTH"
	EnvTarget       = "APIFLOW_TARGET"
	EnvLogFormat    = "APIFLOW_LOG_FORMAT"
	EnvLogLevel     = "APIFLOW_LOG_LEVEL"
)

// ApplyEnv overrides settings from APIFLOW_* environment variables.
// Durations accept Go duration syntax ("45s", "2h").
func (c *Config) ApplyEnv() {
	if d := envDuration(EnvTimeout, 0); d > 0 {
		c.Resolver.TimeoutSeconds = max(int(d/time.Second), 1)
	}
	c.Resolver.MaxFileSize = int64(envInt(EnvMaxFileSize, int(c.Resolver.MaxFileSize), 1))
	c.Resolver.UserAgent = envString(EnvUserAgent, c.Resolver.UserAgent)
	c.Resolver.InsecureSkipVerify = envBool(EnvInsecure, c.Resolver.InsecureSkipVerify)

	c.Cache.Enabled = envBool(EnvCacheEnabled, c.Cache.Enabled)
	c.Cache.Path = envString(EnvCachePath, c.Cache.Path)
	if d := envDuration(EnvCacheTTL, 0); d > 0 {
		c.Cache.TTLMinutes = max(int(d/time.Minute), 1)
	}

	c.Convert.ResolveDepth = envInt(EnvResolveDepth, c.Convert.ResolveDepth, -1)
	c.Convert.DefaultTarget = envString(EnvTarget, c.Convert.DefaultTarget)

	c.Logging.Format = envString(EnvLogFormat, c.Logging.Format)
	c.Logging.Level = envString(EnvLogLevel, c.Logging.Level)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

// envInt parses an integer no smaller than minimum.
func envInt(key string, fallback, minimum int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < minimum {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
