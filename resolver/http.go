package resolver

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/erraggy/apiflow"
	"github.com/erraggy/apiflow/flowerrors"
)

// DefaultTimeout bounds a single HTTP fetch.
const DefaultTimeout = 30 * time.Second

// HTTP fetches http and https URIs with GET.
type HTTP struct {
	// Client is the HTTP client to use. When nil, a client with
	// DefaultTimeout is built on first use.
	Client *http.Client
	// UserAgent is sent with every request. Defaults to apiflow.UserAgent().
	UserAgent string
	// MaxFileSize caps the response body. Zero means MaxFileSize.
	MaxFileSize int64
	// InsecureSkipVerify disables TLS certificate verification. Ignored when
	// Client is set.
	InsecureSkipVerify bool
	// Timeout is used when Client is nil. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Option configures an HTTP resolver.
type Option func(*HTTP)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) Option {
	return func(h *HTTP) { h.Client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(h *HTTP) { h.UserAgent = ua }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) { h.Timeout = d }
}

// WithMaxFileSize sets the response body cap.
func WithMaxFileSize(n int64) Option {
	return func(h *HTTP) { h.MaxFileSize = n }
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(h *HTTP) { h.InsecureSkipVerify = skip }
}

// NewHTTP returns an HTTP resolver configured by opts.
func NewHTTP(opts ...Option) *HTTP {
	h := &HTTP{MaxFileSize: MaxFileSize}
	for _, opt := range opts {
		opt(h)
	}
	if h.MaxFileSize <= 0 {
		h.MaxFileSize = MaxFileSize
	}
	return h
}

func (h *HTTP) client() *http.Client {
	if h.Client != nil {
		if h.InsecureSkipVerify {
			slog.Warn("InsecureSkipVerify ignored when Client provided; configure TLS on your client's transport")
		}
		return h.Client
	}
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if h.InsecureSkipVerify {
		return &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true, //nolint:gosec // user explicitly requested insecure mode
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
	}
	return &http.Client{Timeout: timeout}
}

// Resolve implements Resolver. Any status outside 2xx is a
// *flowerrors.ResolveError carrying the status code.
func (h *HTTP) Resolve(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &flowerrors.ResolveError{URI: uri, Transport: "http", Message: "failed to create request", Cause: err}
	}

	userAgent := h.UserAgent
	if userAgent == "" {
		userAgent = apiflow.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client().Do(req) //nolint:gosec // URI is user-provided input
	if err != nil {
		return nil, &flowerrors.ResolveError{URI: uri, Transport: "http", Message: "failed to fetch URL", Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &flowerrors.ResolveError{URI: uri, Transport: "http", StatusCode: resp.StatusCode, Message: resp.Status}
	}

	limit := h.MaxFileSize
	if limit <= 0 {
		limit = MaxFileSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &flowerrors.ResolveError{URI: uri, Transport: "http", Message: "failed to read response body", Cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &flowerrors.ResolveError{
			URI:       uri,
			Transport: "http",
			Message:   fmt.Sprintf("response exceeds maximum size of %d bytes", limit),
		}
	}
	return data, nil
}
