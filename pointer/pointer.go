// Package pointer provides JSON pointer helpers used to address locations
// inside schema trees and raw documents.
//
// Segment escaping follows RFC 6901: "~" is written as "~0" and "/" as "~1",
// and decoding applies the inverse substitution in the opposite order, so
// Unescape(Escape(s)) == s for any s.
package pointer

import (
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// Root is the pointer of a document root.
const Root = "#"

// Escape encodes a raw key as a pointer segment.
func Escape(segment string) string {
	return jsonpointer.Escape(segment)
}

// Unescape decodes a pointer segment back to the raw key.
func Unescape(segment string) string {
	return jsonpointer.Unescape(segment)
}

// Append returns base extended by the escaped segment.
func Append(base, segment string) string {
	return base + "/" + Escape(segment)
}

// Segments splits a pointer into unescaped segments, so "#/a~1b/c" yields
// ["a/b", "c"]. Only "#" and "" address the root; "#/" addresses the empty
// key.
func Segments(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "#")
	if ptr == "" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	for i, p := range parts {
		parts[i] = Unescape(p)
	}
	return parts
}

// Split separates a reference into its document location and its fragment
// (without the "#").
func Split(ref string) (location, fragment string) {
	location, fragment, _ = strings.Cut(ref, "#")
	return location, fragment
}

// IsLocal reports whether ref points inside the current document.
func IsLocal(ref string) bool {
	return strings.HasPrefix(ref, "#")
}

// Lookup walks doc along fragment and returns the value found there. An empty
// fragment addresses doc itself.
func Lookup(doc any, fragment string) (any, bool) {
	if fragment == "" {
		return doc, true
	}
	if !strings.HasPrefix(fragment, "/") {
		fragment = "/" + fragment
	}
	p, err := jsonpointer.New(fragment)
	if err != nil {
		return nil, false
	}
	v, _, err := p.Get(doc)
	if err != nil {
		return nil, false
	}
	return v, true
}
