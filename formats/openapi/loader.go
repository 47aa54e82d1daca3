package openapi

import (
	"context"

	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/ordered"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
	"github.com/erraggy/apiflow/resolver"
)

// Loader fetches OpenAPI documents. The zero value is ready to use.
type Loader struct {
	Logger loader.Logger
}

// Describe implements registry.Loader.
func (*Loader) Describe() registry.Descriptor { return Descriptor }

// Score implements registry.Loader.
func (*Loader) Score(content []byte) float64 { return Detector.Score(content) }

// Load implements registry.Loader.
func (l *Loader) Load(ctx context.Context, uri string, resolvers resolver.Set) (any, error) {
	p := loader.Pipeline{
		Format:     string(registry.FormatOpenAPI),
		Collection: "paths",
		Defaults:   defaultServers,
		Logger:     l.Logger,
	}
	return p.Load(ctx, uri, resolvers)
}

// defaultServers sets servers to [{url: scheme://host}] when the document
// lists none.
func defaultServers(doc rawdoc.Object, uri string) rawdoc.Object {
	if len(rawdoc.Slice(doc, "servers")) > 0 {
		return doc
	}
	scheme, host := loader.ImplicitConnection(uri)
	var server ordered.Builder[any]
	server.Set("url", scheme+"://"+host)
	return doc.With("servers", []any{server.Build()})
}

var _ registry.Loader = (*Loader)(nil)
