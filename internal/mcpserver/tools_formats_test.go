package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatsTool(t *testing.T) {
	s := newTestServer(t)

	_, output, err := s.handleFormats(context.Background(), &mcp.CallToolRequest{}, formatsInput{})

	require.NoError(t, err)
	names := make([]string, 0, len(output.Formats))
	byName := map[string]formatInfo{}
	for _, f := range output.Formats {
		names = append(names, f.Format)
		byName[f.Format] = f
	}
	assert.Equal(t, []string{"swagger", "openapi", "raml", "internal", "postman", "api-blueprint"}, names)

	assert.True(t, byName["swagger"].Read)
	assert.True(t, byName["swagger"].Write)
	assert.True(t, byName["openapi"].Read)
	assert.False(t, byName["openapi"].Write)
	assert.False(t, byName["api-blueprint"].Read)
	assert.True(t, byName["api-blueprint"].Write)
	assert.Contains(t, byName["raml"].Extensions, "raml")
	assert.Equal(t, []string{"1A"}, byName["api-blueprint"].Versions)
}
