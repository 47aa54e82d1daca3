// Package apiblueprint renders the canonical model as an API Blueprint 1A
// Markdown document. Only serialization is supported.
//
// Top-level groups become "# Group" sections, titled in English title case.
// Requests sharing a path template form one resource section; each request
// is an action with its parameters, request body and responses.
package apiblueprint

import (
	"github.com/erraggy/apiflow/registry"
)

// Version is the blueprint format written.
const Version = "1A"

// Descriptor describes the serializer.
var Descriptor = registry.Descriptor{
	Format:     registry.FormatAPIBlueprint,
	Version:    Version,
	Extensions: []string{"apib", "md"},
}
