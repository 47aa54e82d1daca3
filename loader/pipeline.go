// Package loader turns the text behind a URI into a normalized raw document.
//
// Pipeline is the shared implementation behind every format loader: fetch the
// root text through a resolver.Set, decode it, inline remote entries of one
// top-level collection (such as "paths"), then fill implicit connection
// metadata. Format packages configure a Pipeline and a Detector and expose
// them through the registry.Loader interface.
package loader

import (
	"context"
	"net/url"
	"strings"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/pointer"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/resolver"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of remote entries fetched at once.
const DefaultConcurrency = 8

// ConnectionDefaulter fills connection metadata the document leaves
// implicit, given the URI it was loaded from.
type ConnectionDefaulter func(doc rawdoc.Object, uri string) rawdoc.Object

// Pipeline loads documents of one format.
type Pipeline struct {
	// Format is the format tag reported in errors and logs.
	Format string
	// Collection names the top-level object whose entries may be remote
	// references to inline. Empty disables inlining.
	Collection string
	// Defaults fills implicit connection metadata. Optional.
	Defaults ConnectionDefaulter
	// Logger receives debug output. Optional.
	Logger Logger
	// Concurrency bounds parallel fetches. Zero means DefaultConcurrency.
	Concurrency int
}

// Load fetches uri, decodes it and normalizes the document. It either
// returns the complete document or a *flowerrors.LoadError wrapping the first
// failure; no partial document is ever returned.
func (p Pipeline) Load(ctx context.Context, uri string, resolvers resolver.Set) (any, error) {
	log := OrNop(p.Logger).With("format", p.Format, "uri", uri)

	content, err := resolvers.For(uri).Resolve(ctx, uri)
	if err != nil {
		return nil, &flowerrors.LoadError{URI: uri, Format: p.Format, Cause: err}
	}

	doc, err := p.decodeRoot(uri, content)
	if err != nil {
		return nil, &flowerrors.LoadError{URI: uri, Format: p.Format, Cause: err}
	}

	if p.Collection != "" {
		doc, err = p.inlineCollection(ctx, uri, doc, resolvers, log)
		if err != nil {
			return nil, err
		}
	}

	if p.Defaults != nil {
		doc = p.Defaults(doc, uri)
	}

	log.Debug("loaded document", "keys", doc.Len())
	return doc, nil
}

func (p Pipeline) decodeRoot(uri string, content []byte) (rawdoc.Object, error) {
	raw, err := rawdoc.Decode(content)
	if err != nil {
		return rawdoc.Object{}, &flowerrors.ParseError{
			Source:  uri,
			Format:  p.Format,
			Message: "could not parse file (not a JSON or YAML)",
			Cause:   err,
		}
	}
	doc, ok := rawdoc.AsObject(raw)
	if !ok {
		return rawdoc.Object{}, &flowerrors.ParseError{
			Source:  uri,
			Format:  p.Format,
			Message: "document root is not an object",
		}
	}
	return doc, nil
}

// inlineCollection replaces every entry of the collection that is a remote
// reference with the referenced content. Fetches run concurrently; results
// are stored by index so the original key order is kept.
func (p Pipeline) inlineCollection(ctx context.Context, uri string, doc rawdoc.Object, resolvers resolver.Set, log Logger) (rawdoc.Object, error) {
	collection := rawdoc.ObjectAt(doc, p.Collection)
	if collection.Len() == 0 {
		return doc, nil
	}

	entries := collection.Entries()
	inlined := make([]any, len(entries))
	replaced := make([]bool, len(entries))

	limit := p.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, entry := range entries {
		ref, remote := remoteRef(entry.Value)
		if !remote {
			continue
		}
		replaced[i] = true
		g.Go(func() error {
			value, err := fetchFragment(gctx, resolver.Join(uri, ref), resolvers)
			if err != nil {
				return &flowerrors.LoadError{URI: uri, Format: p.Format, Ref: ref, Cause: err}
			}
			inlined[i] = value
			log.Debug("inlined remote entry", "key", entry.Key, "ref", ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rawdoc.Object{}, err
	}

	b := collection.Builder()
	for i, entry := range entries {
		if replaced[i] {
			b.Set(entry.Key, inlined[i])
		}
	}
	return doc.With(p.Collection, b.Build()), nil
}

func fetchFragment(ctx context.Context, target string, resolvers resolver.Set) (any, error) {
	location, fragment := pointer.Split(target)
	content, err := resolvers.For(location).Resolve(ctx, location)
	if err != nil {
		return nil, err
	}
	raw, err := rawdoc.Decode(content)
	if err != nil {
		// unparsable remote content inlines as an empty object
		return rawdoc.Object{}, nil
	}
	value, ok := pointer.Lookup(raw, fragment)
	if !ok || value == nil {
		return rawdoc.Object{}, nil
	}
	return value, nil
}

// remoteRef reports whether v is an object holding a "$ref" to another
// document.
func remoteRef(v any) (string, bool) {
	obj, ok := rawdoc.AsObject(v)
	if !ok {
		return "", false
	}
	ref, ok := obj.Get(rawdoc.RefKey)
	if !ok {
		return "", false
	}
	s, ok := ref.(string)
	if !ok || s == "" || pointer.IsLocal(s) {
		return "", false
	}
	return s, true
}

// ImplicitConnection returns the scheme and host implied by the URI a
// document was loaded from. Documents read from disk, or from a URI without
// a host, fall back to "http" and "localhost".
func ImplicitConnection(uri string) (scheme, host string) {
	scheme, host = "http", "localhost"
	if !resolver.IsRemote(uri) {
		return scheme, host
	}
	u, err := url.Parse(uri)
	if err != nil {
		return scheme, host
	}
	if u.Scheme != "" {
		scheme = strings.ToLower(u.Scheme)
	}
	if u.Host != "" {
		host = u.Host
	}
	return scheme, host
}
