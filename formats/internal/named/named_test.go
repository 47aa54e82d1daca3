package named

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefine(t *testing.T) {
	var s Set

	a := s.Define("basic", map[string]any{"type": "basic"})
	b := s.Define("basic", map[string]any{"type": "basic"})
	c := s.Define("apiKey", map[string]any{"type": "apiKey", "name": "X-A"})
	d := s.Define("apiKey", map[string]any{"type": "apiKey", "name": "X-B"})
	e := s.Define("apiKey", map[string]any{"type": "apiKey", "name": "X-C"})

	assert.Equal(t, "basic", a)
	assert.Equal(t, a, b, "identical definitions share a name")
	assert.Equal(t, "apiKey", c)
	assert.Equal(t, "apiKey_2", d)
	assert.Equal(t, "apiKey_3", e)
	assert.Equal(t, 4, s.Len())

	m := s.Build()
	assert.Equal(t, []string{"basic", "apiKey", "apiKey_2", "apiKey_3"}, m.Keys())
	assert.Equal(t, 0, s.Len())
}
