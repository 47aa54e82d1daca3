// Package internalfmt reads and writes the canonical model as JSON.
//
// The document mirrors model.RequestContext one to one, so a conversion
// through it loses nothing: the source schema, group keys, every auth
// scheme and response survive a round trip. A document looks like:
//
//	{
//	  "apiflow": "1.0",
//	  "info": {"title": "Pets", "version": "1.0.0"},
//	  "schema": {...},
//	  "group": {
//	    "name": "Pets",
//	    "children": [
//	      {"key": "/pets", "group": {"name": "/pets", "children": [...]}},
//	      {"key": "get", "request": {"method": "GET", "url": "...", ...}}
//	    ]
//	  }
//	}
package internalfmt

import (
	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/registry"
)

// Version is the document version written by the serializer.
const Version = "1.0"

// Descriptor describes the plugins of this package.
var Descriptor = registry.Descriptor{
	Format:     registry.FormatInternal,
	Version:    Version,
	Extensions: []string{"apiflow.json"},
}

// Detector scores internal documents.
var Detector = loader.Detector{
	Gate: loader.HasKey(0.5, "apiflow"),
	Signals: []loader.Signal{
		loader.StringPrefix(0.25, "1.", "apiflow"),
		loader.HasKey(0.25, "group"),
	},
}
