// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes apiflow conversions as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/erraggy/apiflow"
	"github.com/erraggy/apiflow/converter"
	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/registry"
	"github.com/erraggy/apiflow/resolver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `apiflow MCP server: detects and converts API descriptions between Swagger 2.0, OpenAPI 3.x, RAML 1.0, Postman 2.x, the apiflow internal format and API Blueprint.

Configuration: defaults are configurable via APIFLOW_MCP_* environment variables set in your MCP client config.

Key settings:
- APIFLOW_MCP_CACHE_ENABLED (default: true) - cache loaded documents per session
- APIFLOW_MCP_CACHE_FILE_TTL (default: 15m) - cache TTL for local files
- APIFLOW_MCP_CACHE_URL_TTL (default: 5m) - cache TTL for fetched URLs
- APIFLOW_MCP_LIST_LIMIT (default: 100) - default result limit for list_requests
- APIFLOW_MCP_ALLOW_PRIVATE_IPS (default: false) - allow URLs resolving to private addresses

Caching: file entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL. A background sweeper removes expired entries every 60s.`

// Settings configures the conversions run by the server.
type Settings struct {
	// ResolveDepth bounds reference resolution (see converter.WithResolveDepth).
	ResolveDepth int
	// HTTP configures the resolver used for URL inputs and remote references.
	HTTP []resolver.Option
	// Wrap, when set, wraps the HTTP resolver, for example with
	// resolver.Cache.Wrap.
	Wrap func(resolver.Resolver) resolver.Resolver
	// Logger receives converter logs. Optional.
	Logger loader.Logger
}

// Server answers MCP tool calls.
type Server struct {
	conv  *converter.Converter
	cache *documentCache
}

// New builds a Server converting with reg.
func New(reg *registry.Registry, s Settings) (*Server, error) {
	httpOpts := slices.Clone(s.HTTP)
	if !cfg.AllowPrivateIPs {
		httpOpts = append(httpOpts, resolver.WithClient(newSafeHTTPClient(httpTimeout(httpOpts))))
	}
	resolvers := resolver.Default(httpOpts...)
	if s.Wrap != nil {
		resolvers.HTTP = s.Wrap(resolvers.HTTP)
	}

	conv, err := converter.New(reg,
		converter.WithResolvers(resolvers),
		converter.WithResolveDepth(s.ResolveDepth),
		converter.WithLogger(loader.OrNop(s.Logger)),
	)
	if err != nil {
		return nil, err
	}
	return &Server{conv: conv, cache: newDocumentCache(cfg.CacheMaxSize)}, nil
}

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		s.cache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "apiflow", Version: apiflow.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	s.registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert",
		Description: "Convert an API description to another format. Targets: swagger, raml, internal, postman, api-blueprint. The source format is detected. Returns the converted document inline, or writes it to output when given.",
	}, s.handleConvert)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect",
		Description: "Score an API description against every registered format. Returns one score in [0, 1] per format and the detected format (the first scoring above 0.9), if any.",
	}, s.handleDetect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "formats",
		Description: "List the registered formats with their versions, file extensions, and whether each can be read and written.",
	}, s.handleFormats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_requests",
		Description: "Load an API description and list its requests (method, URL, name, group). Filter by method or group. Use group_by (method or group) to get distribution counts instead of individual items. Use offset/limit to paginate. Default limit is configurable via APIFLOW_MCP_LIST_LIMIT.",
	}, s.handleListRequests)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		counts[keyFn(item)]++
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// validateGroupBy checks that group_by is one of the allowed values.
func validateGroupBy(groupBy string, allowed []string) error {
	if groupBy == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(groupBy, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid group_by value %q; valid values: %s", groupBy, strings.Join(allowed, ", "))
}
