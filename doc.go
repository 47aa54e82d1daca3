// Package apiflow converts API description documents between formats through
// a single canonical model.
//
// Supported formats are Swagger 2.0, OpenAPI 3.x (input only), RAML 1.0,
// Postman collection v2, API Blueprint 1A (output only) and the apiflow
// internal JSON format.
//
// # Overview
//
// A conversion runs through the following packages:
//
//   - resolver: fetch text behind a URI (HTTP, filesystem, SQLite cache)
//   - registry: pick the loader whose detection score exceeds the threshold
//   - loader: decode the text, inline remote collection entries, fill
//     connection defaults
//   - model: the canonical RequestContext with its schema graph and request
//     tree; references are resolved lazily to a bounded depth
//   - formats: the format plugins and the default registry
//   - converter: the end-to-end pipeline
//
// # Quick Start
//
//	c, err := converter.New(formats.Default())
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := c.Convert(ctx, "petstore.yaml", registry.FormatPostman)
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.Stdout.Write(res.Output)
//
// # Command Line
//
// The apiflow command wraps the converter:
//
//	apiflow convert petstore.yaml -t raml
//	apiflow convert petstore.yaml -o petstore.postman_collection.json
//	apiflow detect https://example.com/api.json
//	apiflow formats
//	apiflow mcp
//
// Settings are read from ~/.config/apiflow/config.toml; "apiflow config init"
// writes a commented sample.
//
// # Errors
//
// Failures are reported with the structured types of package flowerrors, so
// callers can tell parse failures from fetch failures with errors.Is.
package apiflow
