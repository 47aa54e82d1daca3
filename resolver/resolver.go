// Package resolver fetches the text behind a URI.
//
// Every byte a loader reads goes through a Resolver, which keeps loaders free
// of I/O concerns and lets tests substitute in-memory fakes. A Set pairs an
// HTTP resolver with a filesystem resolver and dispatches on the URI scheme.
//
// Decorators add behavior without changing the contract: Preloaded serves a
// single URI from memory, and Cache keeps remote fetches in a SQLite database
// with a time-to-live.
package resolver

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/erraggy/apiflow/flowerrors"
)

// MaxFileSize is the default maximum number of bytes read from a single URI
// (10MB).
const MaxFileSize int64 = 10 * 1024 * 1024

// Resolver fetches the content of a URI.
type Resolver interface {
	Resolve(ctx context.Context, uri string) ([]byte, error)
}

// Func adapts a function to the Resolver interface.
type Func func(ctx context.Context, uri string) ([]byte, error)

// Resolve implements Resolver.
func (f Func) Resolve(ctx context.Context, uri string) ([]byte, error) {
	return f(ctx, uri)
}

// Set pairs the resolvers used for remote and local URIs.
type Set struct {
	HTTP Resolver
	File Resolver
}

// Default returns a Set with an HTTP resolver configured by opts and a
// filesystem resolver sharing its size limit.
func Default(opts ...Option) Set {
	h := NewHTTP(opts...)
	return Set{
		HTTP: h,
		File: &File{MaxFileSize: h.MaxFileSize},
	}
}

// For returns the HTTP resolver for http and https URIs and the filesystem
// resolver for everything else. A missing resolver yields one that always
// fails with a *flowerrors.ResolveError.
func (s Set) For(uri string) Resolver {
	if IsRemote(uri) {
		if s.HTTP != nil {
			return s.HTTP
		}
		return missing("http")
	}
	if s.File != nil {
		return s.File
	}
	return missing("file")
}

// Map returns a copy of s with fn applied to both resolvers.
func (s Set) Map(fn func(Resolver) Resolver) Set {
	if s.HTTP != nil {
		s.HTTP = fn(s.HTTP)
	}
	if s.File != nil {
		s.File = fn(s.File)
	}
	return s
}

func missing(transport string) Resolver {
	return Func(func(_ context.Context, uri string) ([]byte, error) {
		return nil, &flowerrors.ResolveError{URI: uri, Transport: transport, Message: "no resolver configured"}
	})
}

// IsRemote reports whether uri uses the http or https scheme.
func IsRemote(uri string) bool {
	lower := strings.ToLower(uri)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Join resolves ref against the document at base. Absolute URLs and absolute
// paths are returned unchanged; relative refs are resolved against the
// directory of base, using URL semantics for remote bases and path semantics
// for local ones. Any fragment of ref is kept.
func Join(base, ref string) string {
	if ref == "" {
		return base
	}
	if IsRemote(ref) || strings.HasPrefix(ref, "file://") {
		return ref
	}

	if IsRemote(base) {
		b, err := url.Parse(base)
		if err != nil {
			return ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return b.ResolveReference(r).String()
	}

	if strings.HasPrefix(base, "file://") {
		if path.IsAbs(ref) {
			return "file://" + ref
		}
		loc, frag, _ := strings.Cut(ref, "#")
		joined := "file://" + path.Join(path.Dir(Path(base)), loc)
		if frag != "" {
			joined += "#" + frag
		}
		return joined
	}

	if filepath.IsAbs(ref) {
		return ref
	}
	loc, frag, hasFrag := strings.Cut(ref, "#")
	joined := filepath.Join(filepath.Dir(base), filepath.FromSlash(loc))
	if hasFrag {
		joined += "#" + frag
	}
	return joined
}
