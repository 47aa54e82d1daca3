package resolver

import (
	"context"
	"slices"
)

type preloaded struct {
	uri     string
	content []byte
	next    Resolver
}

// Preloaded returns a Resolver that answers uri with content and delegates
// every other URI to next. The converter uses it so text fetched once for
// format detection is not fetched again by the loader.
func Preloaded(uri string, content []byte, next Resolver) Resolver {
	return &preloaded{uri: uri, content: slices.Clone(content), next: next}
}

func (p *preloaded) Resolve(ctx context.Context, uri string) ([]byte, error) {
	if uri == p.uri {
		return slices.Clone(p.content), nil
	}
	if p.next == nil {
		return missing("memory").Resolve(ctx, uri)
	}
	return p.next.Resolve(ctx, uri)
}

// Preload returns a copy of s where both resolvers answer uri with content.
func (s Set) Preload(uri string, content []byte) Set {
	if s.HTTP == nil {
		s.HTTP = missing("http")
	}
	if s.File == nil {
		s.File = missing("file")
	}
	return s.Map(func(r Resolver) Resolver {
		return Preloaded(uri, content, r)
	})
}
