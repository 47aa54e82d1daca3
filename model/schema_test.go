package model

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/erraggy/apiflow/rawdoc"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// schemaOf decodes a JSON document into a root schema.
func schemaOf(t *testing.T, doc string) Schema {
	t.Helper()
	raw, err := rawdoc.Decode([]byte(doc))
	require.NoError(t, err)
	return SchemaFrom(raw)
}

// plain renders a node through JSON so it can be compared with map literals.
func plain(t *testing.T, v any) any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestMergeSchemaBuildsPointerURIs(t *testing.T) {
	s := schemaOf(t, `{"paths":{"/pets/{id}":{"get":{"x~y":1}}}}`)

	n, ok := s.Lookup("paths", "/pets/{id}", "get", "x~y")
	require.True(t, ok)
	leaf, ok := n.(Schema)
	require.True(t, ok)
	assert.Equal(t, "#/paths/~1pets~1{id}/get/x~0y", leaf.URI)
	assert.True(t, leaf.IsLeaf())
	assert.Equal(t, 1, leaf.Value)
}

func TestMergeSchemaRefBecomesReference(t *testing.T) {
	s := schemaOf(t, `{"a":{"$ref":"#/b"}}`)

	n, ok := s.Lookup("a")
	require.True(t, ok)
	ref, ok := n.(Schema).Ref()
	require.True(t, ok)
	assert.Equal(t, "#/b", ref.Reference)
	assert.False(t, ref.Resolved)
	assert.Nil(t, ref.Value)
}

func TestMergeSchemaLeafAndBranchAreExclusive(t *testing.T) {
	s := SchemaFrom(map[string]any{"a": 1})
	assert.False(t, s.IsLeaf())
	assert.Nil(t, s.Value)

	leaf := s.MergeSchema("scalar")
	assert.True(t, leaf.IsLeaf())
	assert.Equal(t, 0, leaf.Map.Len())
	assert.Equal(t, "scalar", leaf.Value)

	// the receiver is unchanged
	assert.False(t, s.IsLeaf())
}

func TestMergeSchemaMergesIntoExistingMap(t *testing.T) {
	s := schemaOf(t, `{"a":1,"b":2}`)
	raw, err := rawdoc.Decode([]byte(`{"b":3,"c":4}`))
	require.NoError(t, err)

	merged := s.MergeSchema(raw)

	assert.Equal(t, []string{"a", "b", "c"}, merged.Map.Keys())
	assert.Equal(t, map[string]any{"a": 1.0, "b": 3.0, "c": 4.0}, plain(t, merged.ToJS()))
	assert.Equal(t, []string{"a", "b"}, s.Map.Keys())
}

func TestToJSKeepsFalsyLeaves(t *testing.T) {
	s := schemaOf(t, `{"required":false,"minimum":0,"pattern":"","default":null,"empty":{}}`)

	want := map[string]any{"required": false, "minimum": 0.0, "pattern": "", "default": nil, "empty": map[string]any{}}
	if diff := cmp.Diff(want, plain(t, s.ToJS())); diff != "" {
		t.Errorf("ToJS mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveDepthZeroRendersTarget(t *testing.T) {
	s := schemaOf(t, `{"a":{"$ref":"#/b"},"b":{"type":"string"}}`)

	resolved := s.ResolveSelf(0)

	a, ok := resolved.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"type": "string"}, plain(t, a.ToJS()))
}

func TestResolveEmptyKeyPointer(t *testing.T) {
	base := schemaOf(t, `{"":{"type":"string"},"b":{"type":"integer"}}`)

	ref := SchemaReference{Reference: "#/"}.Resolve(base)

	require.True(t, ref.Resolved)
	require.NotNil(t, ref.Value)
	assert.Equal(t, map[string]any{"type": "string"}, plain(t, ref.ToJS()))
}

func TestResolveIsNonDestructive(t *testing.T) {
	s := schemaOf(t, `{"a":{"$ref":"#/b"},"b":{"type":"string"}}`)

	_ = s.ResolveSelf(3)

	a, _ := s.Lookup("a")
	ref, _ := a.(Schema).Ref()
	assert.False(t, ref.Resolved)
	assert.Equal(t, map[string]any{"$ref": "#/b"}, plain(t, a.ToJS()))
}

func TestResolveUnresolvedRendersReferenceString(t *testing.T) {
	ref := SchemaReference{Reference: "#/definitions/Pet"}
	assert.Equal(t, "#/definitions/Pet", ref.ToJS())
}

func TestResolveAlreadyResolvedReferenceIsNoOp(t *testing.T) {
	base := schemaOf(t, `{"b":{"type":"string"},"c":{"type":"integer"}}`)
	ref := SchemaReference{Reference: "#/b"}.Resolve(base)
	require.True(t, ref.Resolved)

	other := schemaOf(t, `{"b":{"type":"boolean"}}`)
	again := ref.Resolve(other)

	assert.Equal(t, ref, again)
}

func TestResolveIsIdempotent(t *testing.T) {
	s := schemaOf(t, `{
		"definitions": {
			"Pet": {"type":"object","properties":{"owner":{"$ref":"#/definitions/Owner"},"tags":{"type":"array","items":{"$ref":"#/definitions/Tag"}}}},
			"Owner": {"type":"object","properties":{"pets":{"type":"array","items":{"$ref":"#/definitions/Pet"}}}},
			"Tag": {"type":"string"}
		}
	}`)

	for depth := range 4 {
		once := s.ResolveSelf(depth)
		twice := once.Resolve(depth, s)
		assert.Equal(t, once, twice, "depth %d", depth)
		assert.Equal(t, once, s.ResolveSelf(depth), "depth %d", depth)
	}
}

func TestResolveCycleTerminates(t *testing.T) {
	s := schemaOf(t, `{"a":{"$ref":"#/b"},"b":{"$ref":"#/a"},"self":{"next":{"$ref":"#/self"}}}`)

	resolved := s.ResolveSelf(0)
	a, _ := resolved.Lookup("a")
	assert.Equal(t, map[string]any{"$ref": "#/a"}, plain(t, a.ToJS()))

	deep := s.ResolveSelf(50)
	self, ok := deep.Lookup("self")
	require.True(t, ok)

	// walk the chain: every hop nests one level until the depth runs out
	hops := 0
	cur := plain(t, self.ToJS())
	for {
		m, ok := cur.(map[string]any)
		if !ok {
			break
		}
		next, ok := m["next"]
		if !ok {
			break
		}
		cur = next
		hops++
	}
	assert.Equal(t, 52, hops)
}

func TestResolveMissingPointerIsLenient(t *testing.T) {
	s := schemaOf(t, `{"a":{"$ref":"#/missing"},"b":{"type":"string"}}`)

	resolved := s.ResolveSelf(2)

	a, _ := resolved.Lookup("a")
	ref, _ := a.(Schema).Ref()
	assert.True(t, ref.Resolved)
	assert.Nil(t, ref.Value)
	assert.Nil(t, a.ToJS())
	assert.Equal(t, map[string]any{"a": nil, "b": map[string]any{"type": "string"}}, plain(t, resolved.ToJS()))
}

func TestResolveLeavesRemoteReferences(t *testing.T) {
	s := schemaOf(t, `{"a":{"$ref":"other.json#/Pet"}}`)

	resolved := s.ResolveSelf(2)

	a, _ := resolved.Lookup("a")
	ref, _ := a.(Schema).Ref()
	assert.False(t, ref.Resolved)
	assert.Equal(t, map[string]any{"$ref": "other.json#/Pet"}, plain(t, a.ToJS()))
}

func TestResolveSiblingKeysOverlayTarget(t *testing.T) {
	s := schemaOf(t, `{"a":{"$ref":"#/b","description":"an a"},"b":{"type":"string","description":"a b"}}`)

	a, _ := s.ResolveSelf(0).Lookup("a")

	assert.Equal(t, map[string]any{"type": "string", "description": "an a"}, plain(t, a.ToJS()))
}

func TestResolveArrays(t *testing.T) {
	s := schemaOf(t, `{"allOf":[{"$ref":"#/defs/A"},{"type":"object"}],"defs":{"A":{"type":"string"}},"alias":{"$ref":"#/allOf/1"}}`)

	out := plain(t, s.ResolveSelf(1).ToJS())

	want := map[string]any{
		"allOf": []any{map[string]any{"type": "string"}, map[string]any{"type": "object"}},
		"defs":  map[string]any{"A": map[string]any{"type": "string"}},
		"alias": map[string]any{"type": "object"},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("ToJS mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, s.Map.Len() == 3)
	allOf, _ := s.Lookup("allOf")
	assert.True(t, allOf.(Schema).IsArray())
}

func TestResolveAgainstSeparateBase(t *testing.T) {
	base := schemaOf(t, `{"definitions":{"Pet":{"type":"object"}}}`)
	response := Schema{URI: "#/paths/~1pets/get/responses/200/schema"}.MergeSchema(map[string]any{"$ref": "#/definitions/Pet"})

	resolved := response.Resolve(0, base)

	assert.Equal(t, map[string]any{"type": "object"}, plain(t, resolved.ToJS()))
}

func TestConcurrentResolveSharesTree(t *testing.T) {
	s := schemaOf(t, `{"a":{"$ref":"#/b"},"b":{"c":{"$ref":"#/a"}}}`)
	want := s.ResolveSelf(3)

	var wg sync.WaitGroup
	results := make([]Schema, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.ResolveSelf(3)
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
