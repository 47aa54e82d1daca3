package registry

import (
	"context"
	"testing"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	desc  Descriptor
	score float64
}

func (f fakeLoader) Describe() Descriptor { return f.desc }
func (f fakeLoader) Score(_ []byte) float64 { return f.score }
func (f fakeLoader) Load(_ context.Context, _ string, _ resolver.Set) (any, error) {
	return nil, nil
}

type fakeParser struct {
	desc  Descriptor
	score float64
}

func (f fakeParser) Describe() Descriptor { return f.desc }
func (f fakeParser) Score(_ any) float64 { return f.score }
func (f fakeParser) Parse(_ any) (model.RequestContext, error) {
	return model.RequestContext{Info: model.Info{Title: f.desc.Version}}, nil
}

type fakeSerializer struct{ desc Descriptor }

func (f fakeSerializer) Describe() Descriptor { return f.desc }
func (f fakeSerializer) Serialize(_ model.RequestContext) ([]byte, error) {
	return []byte(f.desc.String()), nil
}

func TestDetectLoaderFirstMatchWins(t *testing.T) {
	r := New(WithLoaders(
		fakeLoader{desc: Descriptor{Format: FormatSwagger}, score: 0.5},
		fakeLoader{desc: Descriptor{Format: FormatOpenAPI}, score: 1},
		fakeLoader{desc: Descriptor{Format: FormatRAML}, score: 1},
	))

	l, err := r.DetectLoader([]byte("{}"))

	require.NoError(t, err)
	assert.Equal(t, FormatOpenAPI, l.Describe().Format)
}

func TestDetectLoaderThresholdIsExclusive(t *testing.T) {
	r := New(WithLoaders(fakeLoader{desc: Descriptor{Format: FormatSwagger}, score: MatchThreshold}))

	_, err := r.DetectLoader([]byte("{}"))

	require.Error(t, err)
	assert.ErrorIs(t, err, flowerrors.ErrParse)
}

func TestScores(t *testing.T) {
	r := New()
	r.RegisterLoader(fakeLoader{desc: Descriptor{Format: FormatSwagger, Version: "2.0"}, score: 0.25})
	r.RegisterLoader(fakeLoader{desc: Descriptor{Format: FormatOpenAPI, Version: "3.x"}, score: 1})

	scores := r.Scores(nil)

	require.Len(t, scores, 2)
	assert.Equal(t, Score{Descriptor: Descriptor{Format: FormatSwagger, Version: "2.0"}, Score: 0.25}, scores[0])
	assert.True(t, scores[1].Match)
}

func TestParserFor(t *testing.T) {
	r := New(WithParsers(
		fakeParser{desc: Descriptor{Format: FormatSwagger, Version: "a"}, score: 0.2},
		fakeParser{desc: Descriptor{Format: FormatOpenAPI, Version: "b"}, score: 1},
		fakeParser{desc: Descriptor{Format: FormatSwagger, Version: "c"}, score: 1},
	))

	p, err := r.ParserFor(FormatSwagger, nil)
	require.NoError(t, err)
	assert.Equal(t, "c", p.Describe().Version)

	r = New(WithParsers(fakeParser{desc: Descriptor{Format: FormatSwagger, Version: "a"}, score: 0}))
	p, err = r.ParserFor(FormatSwagger, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", p.Describe().Version, "falls back to the first parser of the format")

	_, err = r.ParserFor(FormatRAML, nil)
	assert.ErrorIs(t, err, flowerrors.ErrParse)
}

func TestSerializerFor(t *testing.T) {
	r := New(WithSerializers(
		fakeSerializer{desc: Descriptor{Format: FormatRAML, Version: "1.0", Extensions: []string{"raml"}}},
		fakeSerializer{desc: Descriptor{Format: FormatPostman, Version: "2.1", Extensions: []string{"json"}}},
	))

	s, err := r.SerializerFor(FormatPostman)
	require.NoError(t, err)
	out, err := s.Serialize(model.RequestContext{})
	require.NoError(t, err)
	assert.Equal(t, "postman 2.1", string(out))

	_, err = r.SerializerFor(FormatSwagger)
	assert.ErrorIs(t, err, flowerrors.ErrConfig)
}

func TestExtensionFormat(t *testing.T) {
	r := New(
		WithLoaders(fakeLoader{desc: Descriptor{Format: FormatOpenAPI, Extensions: []string{"yaml", "json"}}}),
		WithSerializers(fakeSerializer{desc: Descriptor{Format: FormatRAML, Extensions: []string{"raml"}}}),
	)

	f, ok := r.ExtensionFormat(".RAML")
	assert.True(t, ok)
	assert.Equal(t, FormatRAML, f)

	f, ok = r.ExtensionFormat("yaml")
	assert.True(t, ok)
	assert.Equal(t, FormatOpenAPI, f)

	_, ok = r.ExtensionFormat("txt")
	assert.False(t, ok)
}

func TestListsAreCopies(t *testing.T) {
	r := New(WithLoaders(fakeLoader{desc: Descriptor{Format: FormatSwagger}}))

	ls := r.Loaders()
	ls[0] = fakeLoader{desc: Descriptor{Format: FormatRAML}}

	assert.Equal(t, FormatSwagger, r.Loaders()[0].Describe().Format)
	assert.Empty(t, r.Parsers())
	assert.Empty(t, r.Serializers())
}

func TestFormats(t *testing.T) {
	r := New(
		WithLoaders(fakeLoader{desc: Descriptor{Format: FormatSwagger}}, fakeLoader{desc: Descriptor{Format: FormatOpenAPI}}),
		WithParsers(fakeParser{desc: Descriptor{Format: FormatSwagger}}),
		WithSerializers(fakeSerializer{desc: Descriptor{Format: FormatAPIBlueprint}}),
	)

	assert.Equal(t, []Format{FormatSwagger, FormatOpenAPI, FormatAPIBlueprint}, r.Formats())
}

func TestCapabilities(t *testing.T) {
	r := New(
		WithLoaders(
			fakeLoader{desc: Descriptor{Format: FormatSwagger, Version: "2.0", Extensions: []string{"json", "yaml"}}},
			fakeLoader{desc: Descriptor{Format: FormatOpenAPI, Version: "3.x"}},
		),
		WithParsers(fakeParser{desc: Descriptor{Format: FormatSwagger, Version: "2.0"}}),
		WithSerializers(
			fakeSerializer{desc: Descriptor{Format: FormatSwagger, Version: "2.0", Extensions: []string{"json"}}},
			fakeSerializer{desc: Descriptor{Format: FormatAPIBlueprint, Version: "1A", Extensions: []string{"apib"}}},
		),
	)

	assert.Equal(t, []Capability{
		{Format: FormatSwagger, Versions: []string{"2.0"}, Extensions: []string{"json", "yaml"}, Read: true, Write: true},
		{Format: FormatOpenAPI, Versions: []string{"3.x"}, Read: true},
		{Format: FormatAPIBlueprint, Versions: []string{"1A"}, Extensions: []string{"apib"}, Write: true},
	}, r.Capabilities())
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"swagger": FormatSwagger,
		"OAS3":    FormatOpenAPI,
		" raml ":  FormatRAML,
		"postman": FormatPostman,
		"apiflow": FormatInternal,
		"apib":    FormatAPIBlueprint,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("wsdl")
	assert.ErrorIs(t, err, flowerrors.ErrConfig)
}

func TestDescriptorString(t *testing.T) {
	assert.Equal(t, "swagger 2.0", Descriptor{Format: FormatSwagger, Version: "2.0"}.String())
	assert.Equal(t, "raml", Descriptor{Format: FormatRAML}.String())
}
