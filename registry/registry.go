// Package registry holds the ordered lists of loaders, parsers and
// serializers and picks the right plugin for a document.
//
// Detection is score based: every loader rates the content in [0, 1] and the
// first loader, in registration order, whose score exceeds MatchThreshold
// wins. Registration order is therefore the tie-break between formats that
// could both claim a document.
package registry

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/resolver"
)

// MatchThreshold is the score a plugin must exceed to claim a document.
const MatchThreshold = 0.9

// Format is a format tag.
type Format string

// Known format tags.
const (
	FormatSwagger      Format = "swagger"
	FormatOpenAPI      Format = "openapi"
	FormatRAML         Format = "raml"
	FormatPostman      Format = "postman"
	FormatInternal     Format = "internal"
	FormatAPIBlueprint Format = "api-blueprint"
)

// Descriptor identifies the format and version a plugin handles.
type Descriptor struct {
	Format     Format
	Version    string
	Extensions []string
}

// String returns "format" or "format version".
func (d Descriptor) String() string {
	if d.Version == "" {
		return string(d.Format)
	}
	return string(d.Format) + " " + d.Version
}

// Loader fetches and normalizes documents of one format.
type Loader interface {
	Describe() Descriptor
	// Score rates how likely content is to be of this format, in [0, 1].
	Score(content []byte) float64
	// Load fetches uri through resolvers and returns the normalized raw
	// document.
	Load(ctx context.Context, uri string, resolvers resolver.Set) (any, error)
}

// Parser turns a raw document into the canonical model.
type Parser interface {
	Describe() Descriptor
	// Score rates how likely raw is to be of this format, in [0, 1].
	Score(raw any) float64
	Parse(raw any) (model.RequestContext, error)
}

// Serializer renders the canonical model in one format.
type Serializer interface {
	Describe() Descriptor
	Serialize(ctx model.RequestContext) ([]byte, error)
}

// Registry is an ordered set of plugins. It is not safe to register plugins
// concurrently with lookups; build the registry once, then share it.
type Registry struct {
	loaders     []Loader
	parsers     []Parser
	serializers []Serializer
}

// Option configures a Registry.
type Option func(*Registry)

// WithLoaders registers loaders in order.
func WithLoaders(ls ...Loader) Option {
	return func(r *Registry) { r.loaders = append(r.loaders, ls...) }
}

// WithParsers registers parsers in order.
func WithParsers(ps ...Parser) Option {
	return func(r *Registry) { r.parsers = append(r.parsers, ps...) }
}

// WithSerializers registers serializers in order.
func WithSerializers(ss ...Serializer) Option {
	return func(r *Registry) { r.serializers = append(r.serializers, ss...) }
}

// New returns a Registry populated by opts.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterLoader appends l.
func (r *Registry) RegisterLoader(l Loader) { r.loaders = append(r.loaders, l) }

// RegisterParser appends p.
func (r *Registry) RegisterParser(p Parser) { r.parsers = append(r.parsers, p) }

// RegisterSerializer appends s.
func (r *Registry) RegisterSerializer(s Serializer) { r.serializers = append(r.serializers, s) }

// Loaders returns the loaders in registration order.
func (r *Registry) Loaders() []Loader { return slices.Clone(r.loaders) }

// Parsers returns the parsers in registration order.
func (r *Registry) Parsers() []Parser { return slices.Clone(r.parsers) }

// Serializers returns the serializers in registration order.
func (r *Registry) Serializers() []Serializer { return slices.Clone(r.serializers) }

// Score is the detection score of one loader.
type Score struct {
	Descriptor Descriptor
	Score      float64
	Match      bool
}

// Scores rates content with every loader, in registration order.
func (r *Registry) Scores(content []byte) []Score {
	out := make([]Score, 0, len(r.loaders))
	for _, l := range r.loaders {
		s := l.Score(content)
		out = append(out, Score{Descriptor: l.Describe(), Score: s, Match: s > MatchThreshold})
	}
	return out
}

// DetectLoader returns the first loader whose score exceeds MatchThreshold.
func (r *Registry) DetectLoader(content []byte) (Loader, error) {
	for _, l := range r.loaders {
		if l.Score(content) > MatchThreshold {
			return l, nil
		}
	}
	return nil, &flowerrors.ParseError{Message: "no loader recognizes the content"}
}

// ParserFor returns the parser for a document of format f. The first parser
// of that format scoring above MatchThreshold wins; when none does, the first
// parser registered for f is used, since the loader already established the
// format.
func (r *Registry) ParserFor(f Format, raw any) (Parser, error) {
	var fallback Parser
	for _, p := range r.parsers {
		if p.Describe().Format != f {
			continue
		}
		if p.Score(raw) > MatchThreshold {
			return p, nil
		}
		if fallback == nil {
			fallback = p
		}
	}
	if fallback == nil {
		return nil, &flowerrors.ParseError{Format: string(f), Message: "no parser registered for format"}
	}
	return fallback, nil
}

// SerializerFor returns the first serializer of format f.
func (r *Registry) SerializerFor(f Format) (Serializer, error) {
	for _, s := range r.serializers {
		if s.Describe().Format == f {
			return s, nil
		}
	}
	return nil, &flowerrors.ConfigError{
		Option:  "target",
		Value:   string(f),
		Message: fmt.Sprintf("no serializer for format %q", f),
	}
}

// ExtensionFormat returns the format whose serializer, then loader, lists
// ext as a file extension. The leading dot is optional.
func (r *Registry) ExtensionFormat(ext string) (Format, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, s := range r.serializers {
		if slices.Contains(s.Describe().Extensions, ext) {
			return s.Describe().Format, true
		}
	}
	for _, l := range r.loaders {
		if slices.Contains(l.Describe().Extensions, ext) {
			return l.Describe().Format, true
		}
	}
	return "", false
}

// Formats returns every format tag known to the registry, in first
// registration order across loaders, parsers and serializers.
func (r *Registry) Formats() []Format {
	var out []Format
	add := func(f Format) {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	for _, l := range r.loaders {
		add(l.Describe().Format)
	}
	for _, p := range r.parsers {
		add(p.Describe().Format)
	}
	for _, s := range r.serializers {
		add(s.Describe().Format)
	}
	return out
}

// Capability summarizes what the registry can do with one format.
type Capability struct {
	Format     Format
	Versions   []string
	Extensions []string
	Read       bool
	Write      bool
}

// Capabilities returns one entry per format, in the order of Formats. A
// format is readable when a loader is registered for it and writable when a
// serializer is.
func (r *Registry) Capabilities() []Capability {
	index := map[Format]int{}
	var out []Capability
	entry := func(d Descriptor) *Capability {
		i, ok := index[d.Format]
		if !ok {
			i = len(out)
			index[d.Format] = i
			out = append(out, Capability{Format: d.Format})
		}
		c := &out[i]
		if d.Version != "" && !slices.Contains(c.Versions, d.Version) {
			c.Versions = append(c.Versions, d.Version)
		}
		for _, ext := range d.Extensions {
			if !slices.Contains(c.Extensions, ext) {
				c.Extensions = append(c.Extensions, ext)
			}
		}
		return c
	}
	for _, l := range r.loaders {
		entry(l.Describe()).Read = true
	}
	for _, p := range r.parsers {
		entry(p.Describe())
	}
	for _, s := range r.serializers {
		entry(s.Describe()).Write = true
	}
	return out
}

// ParseFormat validates a format tag given by a user. Common aliases such as
// "oas3", "swagger2" or "apib" are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "swagger", "swagger2", "oas2":
		return FormatSwagger, nil
	case "openapi", "openapi3", "oas3":
		return FormatOpenAPI, nil
	case "raml", "raml1":
		return FormatRAML, nil
	case "postman", "postman2":
		return FormatPostman, nil
	case "internal", "apiflow":
		return FormatInternal, nil
	case "api-blueprint", "apiblueprint", "apib", "blueprint":
		return FormatAPIBlueprint, nil
	default:
		return "", &flowerrors.ConfigError{Option: "format", Value: s, Message: "unknown format"}
	}
}
