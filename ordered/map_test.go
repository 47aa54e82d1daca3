package ordered

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestWithKeepsReceiverUnchanged(t *testing.T) {
	base := Of(Entry[int]{"a", 1}, Entry[int]{"b", 2})

	updated := base.With("c", 3)

	assert.Equal(t, []string{"a", "b"}, base.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, updated.Keys())
	assert.False(t, base.Has("c"))
}

func TestWithReplacesInPlace(t *testing.T) {
	m := Of(Entry[string]{"first", "1"}, Entry[string]{"second", "2"}, Entry[string]{"third", "3"})

	m = m.With("second", "two")

	assert.Equal(t, []string{"first", "second", "third"}, m.Keys())
	v, ok := m.Get("second")
	require.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestWithout(t *testing.T) {
	m := Of(Entry[int]{"a", 1}, Entry[int]{"b", 2}, Entry[int]{"c", 3})

	removed := m.Without("b")

	assert.Equal(t, []string{"a", "c"}, removed.Keys())
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, m, m.Without("missing"))
}

func TestZeroValue(t *testing.T) {
	var m Map[int]

	_, ok := m.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	m = m.With("x", 1)
	assert.Equal(t, 1, m.Len())
}

func TestBuilderResetsAfterBuild(t *testing.T) {
	var b Builder[int]
	b.Set("a", 1)
	first := b.Build()

	b.Set("b", 2)
	second := b.Build()

	assert.Equal(t, []string{"a"}, first.Keys())
	assert.Equal(t, []string{"b"}, second.Keys())
}

func TestBuilderGet(t *testing.T) {
	var b Builder[int]
	b.Set("a", 1)

	v, ok := b.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, b.Has("a"))
	assert.False(t, b.Has("b"))
}

func TestAllStopsEarly(t *testing.T) {
	m := Of(Entry[int]{"a", 1}, Entry[int]{"b", 2}, Entry[int]{"c", 3})

	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestMarshalJSONPreservesOrder(t *testing.T) {
	inner := Of(Entry[any]{"z", 1}, Entry[any]{"a", true})
	m := Of(Entry[any]{"zeta", "last"}, Entry[any]{"alpha", inner}, Entry[any]{"list", []any{"x", nil}})

	data, err := json.Marshal(m)
	require.NoError(t, err)

	assert.Equal(t, `{"zeta":"last","alpha":{"z":1,"a":true},"list":["x",null]}`, string(data))
}

func TestMarshalYAMLPreservesOrder(t *testing.T) {
	m := Of(Entry[any]{"title", "Pets"}, Entry[any]{"baseUri", "http://x"}, Entry[any]{"nested", Of(Entry[any]{"b", 1}, Entry[any]{"a", 2})})

	data, err := yaml.Marshal(m)
	require.NoError(t, err)

	out := string(data)
	assert.Less(t, strings.Index(out, "title:"), strings.Index(out, "baseUri:"))
	assert.Less(t, strings.Index(out, "baseUri:"), strings.Index(out, "nested:"))
	assert.Less(t, strings.Index(out, "b: 1"), strings.Index(out, "a: 2"))
}

func TestJSONLookup(t *testing.T) {
	m := Of(Entry[any]{"a", 1})

	v, err := m.JSONLookup("a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = m.JSONLookup("b")
	assert.Error(t, err)
}
