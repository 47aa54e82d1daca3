// Package httputil provides HTTP method, status code and media type helpers
// shared by the format plugins.
package httputil

import (
	"mime"
	"slices"
	"strconv"
	"strings"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
	WildcardChar     = 'X' // Wildcard character used in status code patterns (e.g., "2XX")
)

// HTTP Method Constants, lowercase as they appear as path item keys.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace"
)

// Methods lists the operation keys of a path item in conventional order.
var Methods = []string{
	MethodGet, MethodPut, MethodPost, MethodDelete,
	MethodOptions, MethodHead, MethodPatch, MethodTrace,
}

// IsMethod reports whether key names an HTTP operation, ignoring case.
func IsMethod(key string) bool {
	return slices.Contains(Methods, strings.ToLower(key))
}

// ValidateStatusCode checks if a response key names a response.
// Valid values are:
//   - "default" for default response
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
//
// Extension keys ("x-...") are not responses and are rejected.
func ValidateStatusCode(code string) bool {
	if code == "default" {
		return true
	}
	if len(code) != StatusCodeLength {
		return false
	}

	if code[1] == WildcardChar && code[2] == WildcardChar {
		return code[0] >= '1' && code[0] <= '5'
	}

	statusCode, err := strconv.Atoi(code)
	return err == nil && statusCode >= MinStatusCode && statusCode <= MaxStatusCode
}

// Well-known body media types.
const (
	MediaJSON      = "application/json"
	MediaForm      = "application/x-www-form-urlencoded"
	MediaMultipart = "multipart/form-data"
	MediaText      = "text/plain"
)

// IsJSON reports whether mediaType is JSON or a +json structured syntax.
func IsJSON(mediaType string) bool {
	base := baseType(mediaType)
	return base == MediaJSON || strings.HasSuffix(base, "+json")
}

// IsForm reports whether mediaType carries form fields.
func IsForm(mediaType string) bool {
	base := baseType(mediaType)
	return base == MediaForm || base == MediaMultipart
}

func baseType(mediaType string) string {
	if base, _, err := mime.ParseMediaType(mediaType); err == nil {
		return base
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
