// Package openapi loads and parses OpenAPI 3.x documents.
//
// The loader inlines remote path items and, when the document declares no
// servers, derives one from the URI it was loaded from. The parser maps
// parameters, request bodies, responses and security schemes onto the
// canonical model; schemas keep their "#/components/..." pointers and
// resolve against the document schema.
package openapi

import (
	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/registry"
)

// Descriptor describes the plugins of this package.
var Descriptor = registry.Descriptor{
	Format:     registry.FormatOpenAPI,
	Version:    "3.x",
	Extensions: []string{"json", "yaml", "yml"},
}

// Detector scores OpenAPI 3.x documents.
var Detector = loader.Detector{
	Gate: loader.HasKey(0.25, "openapi"),
	Signals: []loader.Signal{
		loader.StringPrefix(0.25, "3.", "openapi"),
		loader.HasKey(0.25, "info"),
		loader.HasKey(0.25, "paths"),
	},
}
