package rawdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRefs(t *testing.T) {
	doc, err := Decode([]byte(`{
		"a": {"$ref": "#/components/schemas/Pet"},
		"b": [{"$ref": "#/components/schemas/Tag"}, {"type": "string"}],
		"c": {"properties": {"owner": {"$ref": "other.json#/Owner"}}},
		"d": 3
	}`))
	require.NoError(t, err)

	got := MapRefs(doc, func(ref string) string {
		return strings.Replace(ref, "#/components/schemas/", "#/definitions/", 1)
	})

	obj, ok := AsObject(got)
	require.True(t, ok)
	assert.Equal(t, "#/definitions/Pet", String(obj, "a", "$ref"))
	assert.Equal(t, "#/definitions/Tag", mustRef(t, obj))
	assert.Equal(t, "other.json#/Owner", String(obj, "c", "properties", "owner", "$ref"))
	assert.Equal(t, 3, mustGet(t, obj, "d"))

	// the input is untouched
	orig, _ := AsObject(doc)
	assert.Equal(t, "#/components/schemas/Pet", String(orig, "a", "$ref"))
}

func mustRef(t *testing.T, obj Object) any {
	t.Helper()
	items := Slice(obj, "b")
	require.Len(t, items, 2)
	first, ok := AsObject(items[0])
	require.True(t, ok)
	v, _ := first.Get(RefKey)
	return v
}

func TestMapRefsScalars(t *testing.T) {
	assert.Equal(t, "x", MapRefs("x", func(string) string { return "y" }))
	assert.Nil(t, MapRefs(nil, func(string) string { return "y" }))
}
