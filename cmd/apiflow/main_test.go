package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const petstoreFile = "../../formats/swagger/testdata/petstore.yaml"

const minimalSwagger = `{
  "swagger": "2.0",
  "info": {"title": "Mini", "version": "1"},
  "host": "mini.example.com",
  "paths": {"/ping": {"get": {"summary": "Ping", "responses": {"200": {"description": "ok"}}}}}
}`

// writeTestConfig writes a configuration with the cache under dir and
// returns its path.
func writeTestConfig(t *testing.T, dir string, cacheEnabled bool) string {
	t.Helper()
	enabled := "false"
	if cacheEnabled {
		enabled = "true"
	}
	content := strings.Join([]string{
		"[cache]",
		"enabled = " + enabled,
		"path = " + `"` + filepath.ToSlash(filepath.Join(dir, "cache.db")) + `"`,
		"",
	}, "\n")
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeBrokenConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"loud\"\n"), 0o600))
	return path
}
