// Package swagger loads, parses and serializes Swagger 2.0 documents.
//
// Parsing folds the whole document into the RequestContext schema, so body
// and response schemas keep pointers such as "#/definitions/Pet" that
// resolve against it. Requests are grouped by path, in document order.
//
// The serializer writes JSON. Definitions come from the source schema's
// "definitions" or, for OpenAPI sources, "components/schemas"; references are
// rewritten to the "#/definitions/" form.
package swagger

import (
	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/registry"
)

// Version is the Swagger version handled by this package.
const Version = "2.0"

// Descriptor describes the plugins of this package.
var Descriptor = registry.Descriptor{
	Format:     registry.FormatSwagger,
	Version:    Version,
	Extensions: []string{"json", "yaml", "yml"},
}

// Detector scores Swagger 2.0 documents.
var Detector = loader.Detector{
	Gate: loader.HasKey(0.25, "swagger"),
	Signals: []loader.Signal{
		loader.Equals(0.25, Version, "swagger"),
		loader.HasKey(0.25, "info"),
		loader.HasKey(0.25, "paths"),
	},
}
