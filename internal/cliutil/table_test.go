package cliutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"Format", "Score"},
		[][]string{{"swagger 2.0", "1.00"}, {"raml"}},
		[]Align{AlignLeft, AlignRight},
	)

	assert.True(t, strings.HasPrefix(out, "╭"), out)
	assert.Contains(t, out, "swagger 2.0")
	assert.Contains(t, out, "1.00")
	assert.Contains(t, out, "raml")
	assert.Len(t, strings.Split(out, "\n"), 6)
}

func TestRenderTableWithoutHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}, nil))
}

func TestRenderTSV(t *testing.T) {
	out := RenderTSV([]string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})

	assert.Equal(t, "a\tb\n1\t2\n3\t4\n", out)
}

func TestWriteTableFallsBackToTSV(t *testing.T) {
	var buf bytes.Buffer

	WriteTable(&buf, []string{"format"}, [][]string{{"postman"}}, nil)

	assert.Equal(t, "format\npostman\n", buf.String())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
