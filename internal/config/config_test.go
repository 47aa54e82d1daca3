package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, time.Hour, cfg.CacheTTL())
}

func TestSampleMatchesDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, decode(strings.NewReader(Sample()), &cfg))
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, used, exists, err := Load(path)

	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, path, used)
	assert.Equal(t, 2, cfg.Convert.ResolveDepth)
}

func TestLoadDefaultPathUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "apiflow")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[convert]\ndefault_target = \"raml\"\n"), 0o600))

	cfg, used, exists, err := Load("")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(dir, "config.toml"), used)
	assert.Equal(t, "raml", cfg.Convert.DefaultTarget)
	assert.Equal(t, filepath.Join(home, ".cache", "apiflow", "documents.db"), cfg.Cache.Path)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[resolver]
timeout_seconds = 5
user_agent = "tests"

[cache]
enabled = true
path = "/tmp/apiflow-cache.db"

[convert]
resolve_depth = -1

[logging]
format = "JSON"
level = "Debug"
`)

	cfg, _, exists, err := Load(path)

	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, "tests", cfg.Resolver.UserAgent)
	assert.Equal(t, int64(defaultMaxFileSize), cfg.Resolver.MaxFileSize, "unset keys keep defaults")
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "/tmp/apiflow-cache.db", cfg.Cache.Path)
	assert.Equal(t, -1, cfg.Convert.ResolveDepth)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "[resolver]\nretries = 3\n",
		"bad syntax":     "[resolver\n",
		"wrong type":     "[resolver]\ntimeout_seconds = \"soon\"\n",
		"bad format":     "[logging]\nformat = \"xml\"\n",
		"bad level":      "[logging]\nlevel = \"loud\"\n",
		"bad target":     "[convert]\ndefault_target = \"wsdl\"\n",
		"zero timeout":   "[resolver]\ntimeout_seconds = 0\n",
		"cache no path":  "[cache]\nenabled = true\npath = \"\"\n",
		"negative ttl":   "[cache]\nttl_minutes = -5\n",
		"zero file size": "[resolver]\nmax_file_size = 0\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, _, _, err := Load(writeConfig(t, "[logging]\nformat = \"xml\"\n"))
	assert.ErrorIs(t, err, flowerrors.ErrConfig)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvTimeout, "45s")
	t.Setenv(EnvCacheEnabled, "true")
	t.Setenv(EnvCacheTTL, "2h")
	t.Setenv(EnvResolveDepth, "-1")
	t.Setenv(EnvTarget, "raml")
	t.Setenv(EnvLogLevel, "debug")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, 45, cfg.Resolver.TimeoutSeconds)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 120, cfg.Cache.TTLMinutes)
	assert.Equal(t, -1, cfg.Convert.ResolveDepth)
	assert.Equal(t, "raml", cfg.Convert.DefaultTarget)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv(EnvTimeout, "forever")
	t.Setenv(EnvCacheEnabled, "maybe")
	t.Setenv(EnvMaxFileSize, "-3")
	t.Setenv(EnvResolveDepth, "-7")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, Default(), cfg)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvLogFormat, "json")
	path := writeConfig(t, "[logging]\nformat = \"text\"\n")

	cfg, _, _, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "info"
	var buf bytes.Buffer

	log := cfg.NewLogger(&buf)
	log.Debug("hidden")
	log.Info("shown", "n", 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, float64(1), entry["n"])
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/configs/../apiflow.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "apiflow.toml"), got)

	got, err = ExpandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
