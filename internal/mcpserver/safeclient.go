package mcpserver

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/resolver"
)

const maxRedirects = 10

// blockedAddr reports whether addr is loopback, private, link-local or
// unspecified. IPv4-mapped IPv6 addresses are judged as IPv4.
func blockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsUnspecified()
}

// publicAddrs resolves host and fails if any of its addresses is blocked, so
// a name with one public and one private record is refused as a whole.
func publicAddrs(ctx context.Context, host string) ([]netip.Addr, error) {
	addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, &flowerrors.ResolveError{URI: host, Transport: "http", Message: "host lookup failed", Cause: err}
	}
	if len(addrs) == 0 {
		return nil, &flowerrors.ResolveError{URI: host, Transport: "http", Message: "host has no addresses"}
	}
	for _, a := range addrs {
		if blockedAddr(a) {
			return nil, &flowerrors.ResolveError{
				URI:       host,
				Transport: "http",
				Message:   "refusing to fetch from private address " + a.String(),
			}
		}
	}
	return addrs, nil
}

// newSafeHTTPClient returns the client used for document URLs supplied by
// MCP clients. It dials only public addresses, checking redirect targets
// too, and pins the connection to the address it checked.
func newSafeHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = resolver.DefaultTimeout
	}
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, err
				}
				addrs, err := publicAddrs(ctx, host)
				if err != nil {
					return nil, err
				}
				return dialer.DialContext(ctx, network, net.JoinHostPort(addrs[0].Unmap().String(), port))
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return &flowerrors.ResolveError{URI: req.URL.String(), Transport: "http", Message: "too many redirects"}
			}
			_, err := publicAddrs(req.Context(), req.URL.Hostname())
			return err
		},
	}
}

// httpTimeout returns the request timeout the options configure.
func httpTimeout(opts []resolver.Option) time.Duration {
	var h resolver.HTTP
	for _, opt := range opts {
		opt(&h)
	}
	return h.Timeout
}
