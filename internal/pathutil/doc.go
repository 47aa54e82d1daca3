// Package pathutil converts URL path templates between the conventions of the
// supported formats and names the well-known reference prefixes.
//
// Swagger, OpenAPI and RAML write path parameters as "{id}"; Postman writes
// them as ":id":
//
//	pathutil.ToColon("/pets/{petId}")   // "/pets/:petId"
//	pathutil.FromColon("/pets/:petId")  // "/pets/{petId}"
//
// [SanitizeOutputPath] validates output file paths given on the command line.
package pathutil
