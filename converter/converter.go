package converter

import (
	"context"
	"fmt"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/registry"
	"github.com/erraggy/apiflow/resolver"
)

// DefaultResolveDepth is the number of chained references followed when
// resolving schemas.
const DefaultResolveDepth = 2

// Result is the outcome of a load or a conversion.
type Result struct {
	// Source describes the detected source format.
	Source registry.Descriptor
	// Target describes the serializer used. Zero after a plain load.
	Target registry.Descriptor
	// Context is the parsed, resolved document.
	Context model.RequestContext
	// Output is the serialized document. Nil after a plain load.
	Output []byte
}

// Converter runs conversions against a registry. It is safe for concurrent
// use once built.
type Converter struct {
	registry  *registry.Registry
	resolvers resolver.Set
	depth     int
	logger    loader.Logger
}

// Option configures a Converter.
type Option func(*Converter) error

// WithResolvers sets the resolvers used to fetch documents. The default is
// resolver.Default().
func WithResolvers(s resolver.Set) Option {
	return func(c *Converter) error {
		c.resolvers = s
		return nil
	}
}

// WithResolveDepth sets how far chained references are followed. Negative
// disables resolution.
func WithResolveDepth(depth int) Option {
	return func(c *Converter) error {
		c.depth = depth
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l loader.Logger) Option {
	return func(c *Converter) error {
		if l == nil {
			return &flowerrors.ConfigError{Option: "logger", Message: "logger must not be nil"}
		}
		c.logger = l
		return nil
	}
}

// New returns a Converter using reg.
func New(reg *registry.Registry, opts ...Option) (*Converter, error) {
	if reg == nil {
		return nil, &flowerrors.ConfigError{Option: "registry", Message: "registry must not be nil"}
	}
	c := &Converter{
		registry:  reg,
		resolvers: resolver.Default(),
		depth:     DefaultResolveDepth,
		logger:    loader.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Registry returns the registry c was built with.
func (c *Converter) Registry() *registry.Registry { return c.registry }

// Fetch returns the text at uri through the configured resolvers.
func (c *Converter) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return c.resolvers.For(uri).Resolve(ctx, uri)
}

// Load fetches, detects, loads, parses and resolves the document at uri.
func (c *Converter) Load(ctx context.Context, uri string) (*Result, error) {
	content, err := c.Fetch(ctx, uri)
	if err != nil {
		return nil, &flowerrors.LoadError{URI: uri, Cause: err}
	}
	return c.LoadContent(ctx, content, uri)
}

// LoadContent is Load for text already in memory. baseURI locates the text
// so relative references can be followed; it may be empty.
func (c *Converter) LoadContent(ctx context.Context, content []byte, baseURI string) (*Result, error) {
	l, err := c.registry.DetectLoader(content)
	if err != nil {
		return nil, &flowerrors.LoadError{URI: baseURI, Cause: err}
	}
	desc := l.Describe()
	log := c.logger.With("uri", baseURI, "format", desc.String())
	log.Debug("detected format")

	raw, err := l.Load(ctx, baseURI, c.resolvers.Preload(baseURI, content))
	if err != nil {
		return nil, err
	}

	p, err := c.registry.ParserFor(desc.Format, raw)
	if err != nil {
		return nil, &flowerrors.LoadError{URI: baseURI, Format: string(desc.Format), Cause: err}
	}
	rc, err := p.Parse(raw)
	if err != nil {
		return nil, &flowerrors.LoadError{URI: baseURI, Format: string(desc.Format), Cause: err}
	}

	if c.depth >= 0 {
		rc = rc.Resolve(c.depth)
	}
	log.Info("loaded document", "title", rc.Info.Title, "requests", len(rc.Group.Requests()))
	return &Result{Source: desc, Context: rc}, nil
}

// Convert loads the document at uri and serializes it as target.
func (c *Converter) Convert(ctx context.Context, uri string, target registry.Format) (*Result, error) {
	s, err := c.registry.SerializerFor(target)
	if err != nil {
		return nil, err
	}
	res, err := c.Load(ctx, uri)
	if err != nil {
		return nil, err
	}
	return c.serialize(res, s)
}

// ConvertContent is Convert for text already in memory.
func (c *Converter) ConvertContent(ctx context.Context, content []byte, baseURI string, target registry.Format) (*Result, error) {
	s, err := c.registry.SerializerFor(target)
	if err != nil {
		return nil, err
	}
	res, err := c.LoadContent(ctx, content, baseURI)
	if err != nil {
		return nil, err
	}
	return c.serialize(res, s)
}

// Serialize renders an already loaded result as target. res is left
// untouched; the returned Result carries the output.
func (c *Converter) Serialize(res *Result, target registry.Format) (*Result, error) {
	s, err := c.registry.SerializerFor(target)
	if err != nil {
		return nil, err
	}
	out := *res
	return c.serialize(&out, s)
}

func (c *Converter) serialize(res *Result, s registry.Serializer) (*Result, error) {
	out, err := s.Serialize(res.Context)
	if err != nil {
		return nil, fmt.Errorf("serializing as %s: %w", s.Describe(), err)
	}
	res.Target = s.Describe()
	res.Output = out
	c.logger.Debug("serialized document", "source", res.Source.String(), "target", res.Target.String(), "bytes", len(out))
	return res, nil
}
