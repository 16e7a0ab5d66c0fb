package djtagspecs

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVersion verifies that Version() returns the version variable.
// In normal builds, this is set via ldflags by GoReleaser.
// In development, it defaults to "dev".
func TestVersion(t *testing.T) {
	result := Version()

	assert.NotEmpty(t, result, "Version() should not return empty string")
	assert.True(t,
		result == "dev" || strings.HasPrefix(result, "v"),
		"Version() should be 'dev' or start with 'v', got: %s", result)
}

// TestGoVersion verifies that GoVersion() returns the runtime Go version.
func TestGoVersion(t *testing.T) {
	result := GoVersion()

	assert.Equal(t, runtime.Version(), result,
		"GoVersion() should match runtime.Version()")
}

// TestUserAgent verifies that UserAgent() returns a properly formatted User-Agent string.
func TestUserAgent(t *testing.T) {
	result := UserAgent()

	assert.Equal(t, "djtagspecs/"+Version(), result)

	// Should not contain characters that are problematic in HTTP headers
	assert.NotContains(t, result, " ")
	assert.NotContains(t, result, "\n")
}

// TestBuildInfo verifies that BuildInfo() returns a formatted string with all build metadata.
func TestBuildInfo(t *testing.T) {
	result := BuildInfo()

	assert.Contains(t, result, "Version:")
	assert.Contains(t, result, "Commit:")
	assert.Contains(t, result, "Build Time:")
	assert.Contains(t, result, "Go Version:")
	assert.Contains(t, result, Version())
	assert.Contains(t, result, GoVersion())
}
