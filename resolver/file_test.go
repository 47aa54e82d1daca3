package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/tmp/api.yaml", Path("file:///tmp/api.yaml"))
	assert.Equal(t, "/tmp/api.yaml", Path("file:///tmp/api.yaml#/paths"))
	assert.Equal(t, "api.yaml", Path("api.yaml#/x"))
	assert.Equal(t, "/tmp/my api.yaml", Path("file:///tmp/my%20api.yaml"))
}

func TestFileResolve(t *testing.T) {
	p := writeFile(t, "api.yaml", "openapi: 3.0.0\n")
	r := &File{}

	data, err := r.Resolve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.0\n", string(data))

	if filepath.Separator == '/' {
		data, err = r.Resolve(context.Background(), "file://"+p)
		require.NoError(t, err)
		assert.Equal(t, "openapi: 3.0.0\n", string(data))
	}
}

func TestFileResolveNotFound(t *testing.T) {
	_, err := (&File{}).Resolve(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, flowerrors.ErrResolve)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "file not found")
}

func TestFileResolveSizeLimit(t *testing.T) {
	p := writeFile(t, "big.json", strings.Repeat("1", 64))

	_, err := (&File{MaxFileSize: 16}).Resolve(context.Background(), p)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum size of 16 bytes")
}

func TestFileResolveCanceledContext(t *testing.T) {
	p := writeFile(t, "api.json", "{}")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&File{}).Resolve(ctx, p)

	assert.ErrorIs(t, err, context.Canceled)
}
