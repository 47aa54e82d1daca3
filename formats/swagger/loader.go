package swagger

import (
	"context"

	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
	"github.com/erraggy/apiflow/resolver"
)

// Loader fetches Swagger documents, inlines remote path items and fills the
// host and schemes the document leaves implicit. The zero value is ready to
// use.
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
		Format:     string(registry.FormatSwagger),
		Collection: "paths",
		Defaults:   defaultConnection,
		Logger:     l.Logger,
	}
	return p.Load(ctx, uri, resolvers)
}

func defaultConnection(doc rawdoc.Object, uri string) rawdoc.Object {
	scheme, host := loader.ImplicitConnection(uri)
	if rawdoc.String(doc, "host") == "" {
		doc = doc.With("host", host)
	}
	if len(rawdoc.Strings(doc, "schemes")) == 0 {
		doc = doc.With("schemes", []any{scheme})
	}
	return doc
}

var _ registry.Loader = (*Loader)(nil)
