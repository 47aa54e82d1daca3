package apiflow

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVersion verifies that Version() is "dev" or a release tag.
func TestVersion(t *testing.T) {
	result := Version()

	assert.NotEmpty(t, result, "Version() should not return empty string")
	assert.True(t,
		result == "dev" || strings.HasPrefix(result, "v"),
		"Version() should be 'dev' or start with 'v', got: %s", result)
}

// TestCommit verifies that Commit() is "unknown" or a short git hash.
func TestCommit(t *testing.T) {
	result := Commit()

	assert.NotEmpty(t, result, "Commit() should not return empty string")
	if result != "unknown" {
		assert.GreaterOrEqual(t, len(result), 7,
			"Commit() should be at least 7 characters for a git hash, got: %s", result)
		for _, ch := range result {
			assert.True(t, (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f'),
				"Commit() should contain only hex characters, got: %s", result)
		}
	}
}

// TestBuildTime verifies that BuildTime() is "unknown" or an RFC3339 timestamp.
func TestBuildTime(t *testing.T) {
	result := BuildTime()

	assert.NotEmpty(t, result, "BuildTime() should not return empty string")
	if result != "unknown" {
		assert.Contains(t, result, "T",
			"BuildTime() should be RFC3339 format containing 'T', got: %s", result)
	}
}

// TestGoVersion verifies that GoVersion() returns the runtime Go version.
func TestGoVersion(t *testing.T) {
	result := GoVersion()

	assert.Equal(t, runtime.Version(), result, "GoVersion() should match runtime.Version()")
	assert.True(t, strings.HasPrefix(result, "go"),
		"GoVersion() should start with 'go', got: %s", result)
}

// TestUserAgent verifies the "apiflow/{version}" format.
func TestUserAgent(t *testing.T) {
	result := UserAgent()

	assert.Equal(t, "apiflow/"+Version(), result)

	parts := strings.SplitN(result, "/", 2)
	assert.Len(t, parts, 2, "UserAgent() should have format 'apiflow/{version}'")
	assert.Equal(t, Version(), parts[1])
}

// TestUserAgentFormat verifies that the UserAgent is safe to send as a header.
func TestUserAgentFormat(t *testing.T) {
	userAgent := UserAgent()

	for _, bad := range []string{" ", "\t", "\n", "\r", "\x00"} {
		assert.NotContains(t, userAgent, bad)
	}
}

// TestBuildInfo verifies that BuildInfo() lists every piece of build metadata.
func TestBuildInfo(t *testing.T) {
	result := BuildInfo()

	for _, label := range []string{"Version:", "Commit:", "Build Time:", "Go Version:"} {
		assert.Contains(t, result, label)
	}
	assert.Contains(t, result, Version())
	assert.Contains(t, result, Commit())
	assert.Contains(t, result, BuildTime())
	assert.Contains(t, result, GoVersion())
}
