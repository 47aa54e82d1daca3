// Package flowerrors provides structured error types for apiflow.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of failures in the load, parse and convert pipeline.
//
// # Error Categories
//
//   - ParseError: content is not JSON/YAML, or fails a format's structural checks
//   - ResolveError: a Resolver could not fetch a URI
//   - UnsupportedAuthError: an Auth variant tag outside the recognized set
//   - LoadError: the load pipeline failed; wraps the first underlying cause
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.Is
//
//	doc, err := c.Load(ctx, "api.yaml")
//	if errors.Is(err, flowerrors.ErrResolve) {
//	    // the document (or one of its remote references) could not be fetched
//	}
package flowerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates content could not be parsed.
	ErrParse = errors.New("parse error")

	// ErrResolve indicates a resolver failed to fetch content.
	ErrResolve = errors.New("resolve error")

	// ErrUnsupportedAuth indicates an unrecognized auth variant tag.
	ErrUnsupportedAuth = errors.New("unsupported auth method")

	// ErrLoad indicates the load pipeline failed.
	ErrLoad = errors.New("load error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents content that is not valid structured text or that
// fails a format's structural checks.
type ParseError struct {
	// Source is the URI or source identifier
	Source string
	// Format is the format tag being parsed, if known
	Format string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Format != "" {
		msg += " (" + e.Format + ")"
	}
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ResolveError represents an I/O failure inside a Resolver.
type ResolveError struct {
	// URI is the location that could not be fetched
	URI string
	// Transport is "http" or "file"
	Transport string
	// StatusCode is the HTTP status for http transports (0 if not applicable)
	StatusCode int
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ResolveError) Error() string {
	msg := "resolve error"
	if e.URI != "" {
		msg += ": " + e.URI
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ResolveError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ResolveError) Is(target error) bool {
	return target == ErrResolve
}

// UnsupportedAuthError is returned when an auth variant tag is not one of the
// recognized tags.
type UnsupportedAuthError struct {
	// Tag is the rejected variant tag
	Tag string
}

// Error returns a human-readable error message.
func (e *UnsupportedAuthError) Error() string {
	return "unsupported auth method: " + e.Tag
}

// Is reports whether target matches this error type.
func (e *UnsupportedAuthError) Is(target error) bool {
	return target == ErrUnsupportedAuth
}

// LoadError represents a failure of the load pipeline. It wraps the first
// underlying cause, which is usually a ResolveError or a ParseError.
type LoadError struct {
	// URI is the root document being loaded
	URI string
	// Format is the loader format tag
	Format string
	// Ref is the remote reference being inlined when the failure happened, if any
	Ref string
	// Cause is the underlying error
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := "load error"
	if e.Format != "" {
		msg += " (" + e.Format + ")"
	}
	if e.URI != "" {
		msg += " for " + e.URI
	}
	if e.Ref != "" {
		msg += " while inlining " + e.Ref
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
