package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectClient serves the apiflow tools over in-memory transports and
// returns a connected client session, closed when the test ends.
func connectClient(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := mcp.NewServer(&mcp.Implementation{Name: "apiflow", Version: "test"}, nil)
	newTestServer(t).registerAllTools(server)
	serverSide, clientSide := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- server.Run(ctx, serverSide) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "apiflow-test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientSide, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-served
	})
	return session
}

// callTool invokes name and decodes its structured result. The protocol
// call itself must succeed; tool errors are reported through IsError.
func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (*mcp.CallToolResult, map[string]any) {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, result)
	if result.IsError || result.StructuredContent == nil {
		return result, nil
	}

	data, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return result, out
}

func TestSessionListsTools(t *testing.T) {
	session := connectClient(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	described := map[string]bool{}
	for _, tool := range result.Tools {
		described[tool.Name] = tool.Description != ""
	}
	assert.Equal(t, map[string]bool{
		"convert":       true,
		"detect":        true,
		"formats":       true,
		"list_requests": true,
	}, described)
}

func TestSessionConvertsInlineContent(t *testing.T) {
	session := connectClient(t)

	result, out := callTool(t, session, "convert", map[string]any{
		"document": map[string]any{"content": minimalOAS3},
		"target":   "internal",
	})

	require.False(t, result.IsError)
	assert.Equal(t, "openapi", out["source_format"])
	assert.Equal(t, "internal", out["target_format"])
	assert.Equal(t, float64(3), out["request_count"])
	assert.Contains(t, out["document"], `"apiflow"`)
}

func TestSessionDetectsFile(t *testing.T) {
	session := connectClient(t)

	result, out := callTool(t, session, "detect", map[string]any{
		"document": map[string]any{"file": petstoreFile},
	})

	require.False(t, result.IsError)
	assert.Equal(t, "swagger 2.0", out["detected"])
}

func TestSessionReportsToolErrors(t *testing.T) {
	session := connectClient(t)

	result, _ := callTool(t, session, "list_requests", map[string]any{
		"document": map[string]any{},
	})

	require.True(t, result.IsError)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "error content is %T", result.Content[0])
	assert.Contains(t, text.Text, "exactly one of file, url, or content")
}
