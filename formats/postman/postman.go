// Package postman loads, parses and serializes Postman collections (v2.0 and
// v2.1).
//
// Folders become groups and items become requests, in collection order.
// Authentication declared on the collection or a folder is inherited by the
// requests below it unless they declare their own. Collection variables are
// substituted into request URLs; unknown "{{variables}}" are kept.
package postman

import (
	"strings"

	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
)

// SchemaURL is the collection schema written by the serializer.
const SchemaURL = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// Descriptor describes the plugins of this package.
var Descriptor = registry.Descriptor{
	Format:     registry.FormatPostman,
	Version:    "2.1",
	Extensions: []string{"json", "postman_collection.json"},
}

// Detector scores Postman v2 collections.
var Detector = loader.Detector{
	Gate: loader.Signal{
		Name:   "info.schema",
		Weight: 0.5,
		Match: func(in loader.Input) bool {
			return strings.Contains(rawdoc.String(in.Doc, "info", "schema"), "/collection/v2")
		},
	},
	Signals: []loader.Signal{
		loader.HasKey(0.25, "item"),
		loader.HasKey(0.25, "info", "name"),
	},
}
