package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/registry"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Resolver holds document fetching settings.
type Resolver struct {
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	MaxFileSize        int64  `toml:"max_file_size"`
	UserAgent          string `toml:"user_agent"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
}

// Cache holds the remote document cache settings.
type Cache struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

// Convert holds conversion defaults.
type Convert struct {
	ResolveDepth  int    `toml:"resolve_depth"`
	DefaultTarget string `toml:"default_target"`
}

// Logging holds log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the complete CLI configuration.
type Config struct {
	Resolver Resolver `toml:"resolver"`
	Cache    Cache    `toml:"cache"`
	Convert  Convert  `toml:"convert"`
	Logging  Logging  `toml:"logging"`
}

const (
	defaultPath          = "~/.config/apiflow/config.toml"
	defaultCachePath     = "~/.cache/apiflow/documents.db"
	defaultTimeout       = 30
	defaultMaxFileSize   = 10 * 1024 * 1024
	defaultCacheTTL      = 60
	defaultResolveDepth  = 2
	defaultTarget        = "postman"
	defaultLogFormat     = "text"
	defaultLogLevel      = "warn"
	defaultUserAgentBase = "apiflow"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Resolver: Resolver{
			TimeoutSeconds: defaultTimeout,
			MaxFileSize:    defaultMaxFileSize,
			UserAgent:      defaultUserAgentBase,
		},
		Cache: Cache{
			Path:       defaultCachePath,
			TTLMinutes: defaultCacheTTL,
		},
		Convert: Convert{
			ResolveDepth:  defaultResolveDepth,
			DefaultTarget: defaultTarget,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// Sample returns a commented configuration file holding the defaults.
func Sample() string {
	return sampleConfig
}

// DefaultPath returns the absolute path of the default configuration file.
func DefaultPath() (string, error) {
	return ExpandPath(defaultPath)
}

// Load reads the configuration file at path, or the default file when path
// is empty, then applies environment overrides. A missing file is not an
// error. Load returns the configuration, the file path considered and
// whether it existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, "", false, err
		}
	} else {
		var err error
		if path, err = ExpandPath(path); err != nil {
			return nil, "", false, err
		}
	}

	exists := true
	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := decode(file, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, path, exists, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func (c *Config) normalize() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Cache.Path != "" {
		p, err := ExpandPath(c.Cache.Path)
		if err != nil {
			return err
		}
		c.Cache.Path = p
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	switch {
	case c.Resolver.TimeoutSeconds <= 0:
		return invalid("resolver.timeout_seconds", c.Resolver.TimeoutSeconds, "must be positive")
	case c.Resolver.MaxFileSize <= 0:
		return invalid("resolver.max_file_size", c.Resolver.MaxFileSize, "must be positive")
	case c.Cache.Enabled && c.Cache.Path == "":
		return invalid("cache.path", c.Cache.Path, "required when the cache is enabled")
	case c.Cache.TTLMinutes <= 0:
		return invalid("cache.ttl_minutes", c.Cache.TTLMinutes, "must be positive")
	}
	if c.Convert.DefaultTarget != "" {
		if _, err := registry.ParseFormat(c.Convert.DefaultTarget); err != nil {
			return invalid("convert.default_target", c.Convert.DefaultTarget, "unknown format")
		}
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return invalid("logging.format", c.Logging.Format, `must be "text" or "json"`)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level", c.Logging.Level, err.Error())
	}
	return nil
}

func invalid(option string, value any, msg string) error {
	return &flowerrors.ConfigError{Option: option, Value: fmt.Sprint(value), Message: msg}
}

// Timeout returns the remote fetch timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Resolver.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long cached documents stay fresh.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}

// NewLogger builds the logger described by the logging settings, writing
// to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Logging.Level)
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ExpandPath expands a leading "~" and returns the absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
