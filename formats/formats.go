// Package formats assembles the registry of every supported format.
//
// Registration order decides which format claims a document when several
// score above the match threshold, so it is fixed here: loaders and parsers
// are registered as swagger, openapi, raml, internal, postman; serializers as
// swagger, raml, internal, postman, api-blueprint.
package formats

import (
	"github.com/erraggy/apiflow/formats/apiblueprint"
	"github.com/erraggy/apiflow/formats/internalfmt"
	"github.com/erraggy/apiflow/formats/openapi"
	"github.com/erraggy/apiflow/formats/postman"
	"github.com/erraggy/apiflow/formats/raml"
	"github.com/erraggy/apiflow/formats/swagger"
	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/registry"
)

type config struct {
	logger loader.Logger
}

// Option configures Default.
type Option func(*config)

// WithLogger sets the logger handed to every loader.
func WithLogger(l loader.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Default returns a registry holding every built-in plugin.
func Default(opts ...Option) *registry.Registry {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	log := loader.OrNop(cfg.logger)

	return registry.New(
		registry.WithLoaders(
			&swagger.Loader{Logger: log},
			&openapi.Loader{Logger: log},
			&raml.Loader{Logger: log},
			&internalfmt.Loader{Logger: log},
			&postman.Loader{Logger: log},
		),
		registry.WithParsers(
			swagger.Parser{},
			openapi.Parser{},
			raml.Parser{},
			internalfmt.Parser{},
			postman.Parser{},
		),
		registry.WithSerializers(
			swagger.Serializer{},
			raml.Serializer{},
			internalfmt.Serializer{},
			postman.Serializer{},
			apiblueprint.Serializer{},
		),
	)
}
