// Package converter loads API descriptions in any registered format and
// renders them in another.
//
// A conversion runs detect, load, parse, resolve and serialize in order. The
// source text is fetched once: detection scores it, then the loader reads it
// again from memory, so only referenced documents cause further fetches.
// Loading and parsing are all-or-nothing; schema resolution is best-effort
// and bounded by the resolve depth.
//
// # Quick Start
//
//	c, err := converter.New(formats.Default())
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := c.Convert(ctx, "https://example.com/swagger.json", registry.FormatPostman)
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.Stdout.Write(res.Output)
//
// # Resolve Depth
//
// WithResolveDepth bounds how many chained "$ref" hops are followed (see
// model.Schema.Resolve). The default is DefaultResolveDepth; a negative depth
// leaves every reference unresolved, which keeps references intact for
// targets that can express them.
//
// # Related Packages
//
//   - [github.com/erraggy/apiflow/registry] - Format detection and plugin lookup
//   - [github.com/erraggy/apiflow/formats] - The built-in plugins
//   - [github.com/erraggy/apiflow/resolver] - Fetching documents
package converter
