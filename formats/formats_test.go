package formats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/apiflow/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptors[T interface{ Describe() registry.Descriptor }](items []T) []registry.Format {
	out := make([]registry.Format, 0, len(items))
	for _, it := range items {
		out = append(out, it.Describe().Format)
	}
	return out
}

func TestDefaultRegistrationOrder(t *testing.T) {
	r := Default()

	assert.Equal(t, []registry.Format{
		registry.FormatSwagger, registry.FormatOpenAPI, registry.FormatRAML, registry.FormatInternal, registry.FormatPostman,
	}, descriptors(r.Loaders()))
	assert.Equal(t, []registry.Format{
		registry.FormatSwagger, registry.FormatOpenAPI, registry.FormatRAML, registry.FormatInternal, registry.FormatPostman,
	}, descriptors(r.Parsers()))
	assert.Equal(t, []registry.Format{
		registry.FormatSwagger, registry.FormatRAML, registry.FormatInternal, registry.FormatPostman, registry.FormatAPIBlueprint,
	}, descriptors(r.Serializers()))
}

func TestDefaultDetectsFixtures(t *testing.T) {
	tests := map[string]registry.Format{
		"swagger/testdata/petstore.yaml":   registry.FormatSwagger,
		"openapi/testdata/petstore.yaml":   registry.FormatOpenAPI,
		"raml/testdata/library.raml":       registry.FormatRAML,
		"postman/testdata/collection.json": registry.FormatPostman,
	}
	r := Default()
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			content, err := os.ReadFile(filepath.FromSlash(path))
			require.NoError(t, err)

			l, err := r.DetectLoader(content)

			require.NoError(t, err)
			assert.Equal(t, want, l.Describe().Format)
		})
	}
}

func TestDefaultDetectsInternal(t *testing.T) {
	l, err := Default().DetectLoader([]byte(`{"apiflow":"1.0","info":{"title":"x"},"group":{"name":"x"}}`))

	require.NoError(t, err)
	assert.Equal(t, registry.FormatInternal, l.Describe().Format)
}

func TestDefaultRejectsUnknownContent(t *testing.T) {
	_, err := Default().DetectLoader([]byte("just some text"))
	assert.Error(t, err)
}
