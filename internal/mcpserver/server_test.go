package mcpserver

import (
	"fmt"
	"math"
	"testing"

	"github.com/erraggy/apiflow/formats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreFile = "../../formats/swagger/testdata/petstore.yaml"

// minimalOAS3 is a small OpenAPI 3.0 document used across tool tests.
const minimalOAS3 = `{
  "openapi": "3.0.3",
  "info": {"title": "Test API", "version": "1.0.0"},
  "servers": [{"url": "https://api.example.com/v1"}],
  "paths": {
    "/pets": {
      "get": {"summary": "List all pets", "responses": {"200": {"description": "OK"}}},
      "post": {"summary": "Create a pet", "responses": {"201": {"description": "Created"}}}
    },
    "/pets/{petId}": {
      "get": {
        "summary": "Get a pet",
        "parameters": [{"name": "petId", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"200": {"description": "OK"}}
      }
    }
  }
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(formats.Default(), Settings{ResolveDepth: 2})
	require.NoError(t, err)
	return s
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	tests := []struct {
		name   string
		items  []int
		offset int
		limit  int
		want   []int
	}{
		{"default limit returns all when under 100", items, 0, 0, []int{0, 1, 2, 3, 4}},
		{"explicit limit", items, 0, 2, []int{0, 1}},
		{"offset only", items, 2, 0, []int{2, 3, 4}},
		{"offset and limit", items, 1, 2, []int{1, 2}},
		{"offset at end", items, 4, 2, []int{4}},
		{"offset beyond end", items, 5, 2, nil},
		{"negative offset", items, -1, 2, nil},
		{"limit exceeds remaining", items, 3, 10, []int{3, 4}},
		{"nil slice", nil, 0, 2, nil},
		{"negative limit treated as default", items, 0, -1, []int{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(tt.items, tt.offset, tt.limit))
		})
	}
}

func TestPaginate_OverflowLimit(t *testing.T) {
	items := []int{0, 1, 2}
	got := paginate(items, 1, math.MaxInt)
	assert.Equal(t, []int{1, 2}, got)
}

func TestPaginate_MaxLimitCap(t *testing.T) {
	items := make([]int, 1500)
	for i := range items {
		items[i] = i
	}
	got := paginate(items, 0, 1500)
	assert.Len(t, got, cfg.MaxLimit, "limit should be capped at MaxLimit")
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[int](0))
	s := makeSlice[int](3)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error returns empty string", nil, ""},
		{"strips absolute path", fmt.Errorf("failed to open /home/user/secret/api.yaml: no such file"), "failed to open <path>: no such file"},
		{"preserves non-path content", fmt.Errorf("invalid JSON at line 5"), "invalid JSON at line 5"},
		{"strips multiple paths", fmt.Errorf("load /tmp/a.yaml then /tmp/b.yaml failed"), "load <path> then <path> failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestGroupAndSort(t *testing.T) {
	got := groupAndSort([]string{"GET", "POST", "GET", "DELETE", "POST", "GET"}, func(s string) string { return s })

	assert.Equal(t, []groupCount{
		{Key: "GET", Count: 3},
		{Key: "POST", Count: 2},
		{Key: "DELETE", Count: 1},
	}, got)
}

func TestValidateGroupBy(t *testing.T) {
	allowed := []string{"method", "group"}

	assert.NoError(t, validateGroupBy("", allowed))
	assert.NoError(t, validateGroupBy("METHOD", allowed))
	err := validateGroupBy("tag", allowed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid values: method, group")
}

func TestRegisteredTools(t *testing.T) {
	s := newTestServer(t)
	assert.NotNil(t, s.conv)
	assert.Zero(t, s.cache.size())
}
