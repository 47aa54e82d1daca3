// Package raml loads, parses and serializes RAML 1.0 documents.
//
// RAML is YAML with a "#%RAML 1.0" header line, so loader detection reads the
// raw text while parser detection works on the decoded document. Resources
// nest: every key starting with "/" is a child resource whose URI extends its
// parent's, and the parser mirrors that tree as nested groups.
package raml

import (
	"strings"

	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/registry"
)

// Version is the RAML version handled by this package.
const Version = "1.0"

// Header is the first line of every RAML 1.0 document.
const Header = "#%RAML " + Version

// Descriptor describes the plugins of this package.
var Descriptor = registry.Descriptor{
	Format:     registry.FormatRAML,
	Version:    Version,
	Extensions: []string{"raml"},
}

// Detector scores RAML text by its header line.
var Detector = loader.Detector{
	Gate: loader.FirstLine("header", 0.5, func(line string) bool {
		return strings.HasPrefix(line, "#%RAML")
	}),
	Signals: []loader.Signal{
		loader.FirstLine("version", 0.25, func(line string) bool {
			return strings.Contains(line, Version)
		}),
		loader.HasKey(0.25, "title"),
	},
}

// DocumentDetector scores decoded RAML documents, which no longer carry the
// header line.
var DocumentDetector = loader.Detector{
	Gate: loader.HasKey(0.5, "title"),
	Signals: []loader.Signal{
		loader.HasKey(0.25, "baseUri"),
		{
			Name:   "resources",
			Weight: 0.25,
			Match: func(in loader.Input) bool {
				for _, k := range in.Doc.Keys() {
					if isResource(k) {
						return true
					}
				}
				return false
			},
		},
	},
}

func isResource(key string) bool {
	return strings.HasPrefix(key, "/")
}
