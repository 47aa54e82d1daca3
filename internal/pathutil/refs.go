package pathutil

import "strings"

// Schema reference prefixes of Swagger 2.0 and OpenAPI 3.x.
const (
	RefPrefixDefinitions = "#/definitions/"
	RefPrefixSchemas     = "#/components/schemas/"
)

// DefinitionRef builds "#/definitions/{name}".
func DefinitionRef(name string) string {
	return RefPrefixDefinitions + name
}

// ToDefinitionRef rewrites an OpenAPI 3 schema reference to its Swagger 2.0
// equivalent. Other references are returned unchanged.
func ToDefinitionRef(ref string) string {
	if name, ok := strings.CutPrefix(ref, RefPrefixSchemas); ok {
		return DefinitionRef(name)
	}
	return ref
}

// RefName returns the last segment of a local reference, e.g. "Pet" for
// "#/definitions/Pet".
func RefName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
