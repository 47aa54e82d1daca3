package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/apiflow/formats"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTool_OpenAPIToPostman(t *testing.T) {
	s := newTestServer(t)
	input := convertInput{
		Document: documentInput{Content: minimalOAS3},
		Target:   "postman",
	}

	res, output, err := s.handleConvert(context.Background(), &mcp.CallToolRequest{}, input)

	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "openapi", output.SourceFormat)
	assert.Equal(t, "postman", output.TargetFormat)
	assert.Equal(t, "2.1", output.TargetVersion)
	assert.Equal(t, "Test API", output.Title)
	assert.Equal(t, 3, output.RequestCount)
	assert.Empty(t, output.WrittenTo)
	assert.Contains(t, output.Document, "_postman_id")

	l, err := formats.Default().DetectLoader([]byte(output.Document))
	require.NoError(t, err)
	assert.Equal(t, "postman", string(l.Describe().Format))
}

func TestConvertTool_TargetAlias(t *testing.T) {
	s := newTestServer(t)

	_, output, err := s.handleConvert(context.Background(), &mcp.CallToolRequest{}, convertInput{
		Document: documentInput{File: petstoreFile},
		Target:   "apib",
	})

	require.NoError(t, err)
	assert.Equal(t, "swagger", output.SourceFormat)
	assert.Equal(t, "api-blueprint", output.TargetFormat)
	assert.Contains(t, output.Document, "FORMAT: 1A")
}

func TestConvertTool_OutputFile(t *testing.T) {
	s := newTestServer(t)
	outPath := filepath.Join(t.TempDir(), "converted.raml")

	_, output, err := s.handleConvert(context.Background(), &mcp.CallToolRequest{}, convertInput{
		Document: documentInput{Content: minimalOAS3},
		Target:   "raml",
		Output:   outPath,
	})

	require.NoError(t, err)
	assert.Equal(t, outPath, output.WrittenTo)
	assert.Empty(t, output.Document, "document should not be inline when written to file")
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#%RAML 1.0")
}

func TestConvertTool_Errors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name  string
		input convertInput
	}{
		{"missing target", convertInput{Document: documentInput{Content: minimalOAS3}}},
		{"unknown target", convertInput{Document: documentInput{Content: minimalOAS3}, Target: "wsdl"}},
		{"read only target", convertInput{Document: documentInput{Content: minimalOAS3}, Target: "openapi"}},
		{"no document", convertInput{Target: "postman"}},
		{"undetectable document", convertInput{Document: documentInput{Content: "hello: world"}, Target: "postman"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := s.handleConvert(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.IsError)
		})
	}
}
