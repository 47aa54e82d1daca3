package pathutil

import (
	"regexp"
	"strings"
)

// PathParamRegex matches path template parameters like {paramName}.
// It captures the parameter name inside the braces.
var PathParamRegex = regexp.MustCompile(`\{([^}]+)\}`)

// colonParamRegex matches ":name" segments.
var colonParamRegex = regexp.MustCompile(`(^|/):([A-Za-z_][A-Za-z0-9_.-]*)`)

// ParamNames returns the names of the {param} placeholders of path, in order.
func ParamNames(path string) []string {
	matches := PathParamRegex.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// ToColon rewrites {param} placeholders as :param.
func ToColon(path string) string {
	return PathParamRegex.ReplaceAllString(path, ":$1")
}

// FromColon rewrites :param segments as {param}.
func FromColon(path string) string {
	return colonParamRegex.ReplaceAllString(path, "$1{$2}")
}

// Segments splits a URL path into its non-empty segments.
func Segments(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
