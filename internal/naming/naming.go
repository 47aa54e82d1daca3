// Package naming provides case conversion for generated request and
// operation names.
package naming

import (
	"strings"
	"unicode"
)

// ToPascalCase converts a string to PascalCase.
// Separators (underscore, hyphen, dot, slash, space) trigger capitalization
// of the next letter. Braces and colons around path parameters are dropped.
// Example: "user_profile" -> "UserProfile"
// Example: "/pets/{petId}" -> "PetsPetId"
func ToPascalCase(s string) string {
	var result strings.Builder
	capitalizeNext := true

	for _, r := range s {
		switch r {
		case '_', '-', '.', '/', ' ', '{', '}', ':':
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// OperationID derives an operation identifier from a method and a path.
// Example: ("GET", "/pets/{petId}") -> "getPetsPetId"
func OperationID(method, path string) string {
	return strings.ToLower(method) + ToPascalCase(path)
}

// RequestName returns the display name of an operation: its summary when
// present, otherwise "METHOD path".
func RequestName(summary, method, path string) string {
	if s := strings.TrimSpace(summary); s != "" {
		return s
	}
	return strings.ToUpper(method) + " " + path
}
