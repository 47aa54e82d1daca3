package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRequests(t *testing.T) {
	s := newTestServer(t)

	res, output, err := s.handleListRequests(context.Background(), &mcp.CallToolRequest{}, listRequestsInput{
		Document: documentInput{Content: minimalOAS3},
	})

	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "Test API", output.Title)
	assert.Equal(t, "openapi 3.x", output.Format)
	assert.Equal(t, 3, output.Total)
	assert.Equal(t, 3, output.Returned)
	require.Len(t, output.Requests, 3)
	assert.Equal(t, requestSummary{
		Method: "GET",
		URL:    "https://api.example.com/v1/pets",
		Name:   "List all pets",
		Groups: []string{"/pets"},
	}, output.Requests[0])
}

func TestListRequests_Filters(t *testing.T) {
	s := newTestServer(t)

	_, byMethod, err := s.handleListRequests(context.Background(), &mcp.CallToolRequest{}, listRequestsInput{
		Document: documentInput{Content: minimalOAS3},
		Method:   "get",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, byMethod.Total)

	_, byGroup, err := s.handleListRequests(context.Background(), &mcp.CallToolRequest{}, listRequestsInput{
		Document: documentInput{Content: minimalOAS3},
		Group:    "/pets/{petId}",
	})
	require.NoError(t, err)
	require.Len(t, byGroup.Requests, 1)
	assert.Equal(t, "https://api.example.com/v1/pets/{petId}", byGroup.Requests[0].URL)
}

func TestListRequests_GroupBy(t *testing.T) {
	s := newTestServer(t)

	_, output, err := s.handleListRequests(context.Background(), &mcp.CallToolRequest{}, listRequestsInput{
		Document: documentInput{Content: minimalOAS3},
		GroupBy:  "method",
	})

	require.NoError(t, err)
	assert.Nil(t, output.Requests)
	assert.Equal(t, []groupCount{{Key: "GET", Count: 2}, {Key: "POST", Count: 1}}, output.Groups)
	assert.Equal(t, 2, output.Returned)
}

func TestListRequests_Pagination(t *testing.T) {
	s := newTestServer(t)

	_, output, err := s.handleListRequests(context.Background(), &mcp.CallToolRequest{}, listRequestsInput{
		Document: documentInput{Content: minimalOAS3},
		Offset:   1,
		Limit:    1,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, output.Total)
	require.Len(t, output.Requests, 1)
	assert.Equal(t, "POST", output.Requests[0].Method)
}

func TestListRequests_InvalidGroupBy(t *testing.T) {
	s := newTestServer(t)

	res, _, err := s.handleListRequests(context.Background(), &mcp.CallToolRequest{}, listRequestsInput{
		Document: documentInput{Content: minimalOAS3},
		GroupBy:  "tag",
	})

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}
