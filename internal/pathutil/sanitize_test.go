package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeOutputPathAccepts(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "api.raml")
	require.NoError(t, os.WriteFile(existing, []byte("#%RAML 1.0\n"), 0o600))

	tests := map[string]struct {
		in   string
		want string
	}{
		"existing file":        {existing, existing},
		"new file":             {filepath.Join(dir, "api.apib"), filepath.Join(dir, "api.apib")},
		"dot segments cleaned": {filepath.Join(dir, "sub", "..", "api.json"), filepath.Join(dir, "api.json")},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := SanitizeOutputPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeOutputPathRelativeBecomesAbsolute(t *testing.T) {
	got, err := SanitizeOutputPath("collection.json")

	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), got)
	assert.Equal(t, "collection.json", filepath.Base(got))
}

func TestSanitizeOutputPathRejects(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.json")
	link := filepath.Join(dir, "link.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o600))
	require.NoError(t, os.Symlink(target, link))

	tests := map[string]struct {
		in      string
		message string
	}{
		"empty":          {"  ", "empty"},
		"symlink":        {link, "symlink"},
		"directory":      {dir, "directory"},
		"missing parent": {filepath.Join(dir, "missing", "out.json"), "parent directory"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := SanitizeOutputPath(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, flowerrors.ErrConfig)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
