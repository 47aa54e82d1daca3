package postman

import (
	"context"

	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/registry"
	"github.com/erraggy/apiflow/resolver"
)

// Loader fetches Postman collections. The zero value is ready to use.
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
		Format: string(registry.FormatPostman),
		Logger: l.Logger,
	}
	return p.Load(ctx, uri, resolvers)
}

var _ registry.Loader = (*Loader)(nil)
