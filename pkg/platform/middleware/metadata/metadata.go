// Package metadata records who is calling: client address and a parsed User-Agent.
package metadata

import (
	"context"
	"net"
	"net/http"

	"github.com/mssola/useragent"
)

type contextKeyClient struct{}

// Client describes the caller of one request.
type Client struct {
	IP        string
	UserAgent string
	Browser   string
	OS        string
	Bot       bool
}

// LogAttrs renders the client as slog key/value pairs.
func (c Client) LogAttrs() []any {
	return []any{
		"client_ip", c.IP,
		"client_browser", c.Browser,
		"client_os", c.OS,
		"client_bot", c.Bot,
	}
}

// ClientMetadata stores the caller's Client on the request context. Run it after
// chi's RealIP so proxied addresses are already resolved.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClient(r.Context(), FromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromRequest builds a Client from r.
func FromRequest(r *http.Request) Client {
	c := Client{IP: hostOnly(r.RemoteAddr), UserAgent: r.Header.Get("User-Agent")}
	if c.UserAgent != "" {
		ua := useragent.New(c.UserAgent)
		c.Browser, _ = ua.Browser()
		c.OS = ua.OS()
		c.Bot = ua.Bot()
	}
	return c
}

// FromContext returns the Client stored by ClientMetadata, or the zero Client.
func FromContext(ctx context.Context) Client {
	c, _ := ctx.Value(contextKeyClient{}).(Client)
	return c
}

// WithClient injects c into ctx. Useful in tests that skip the middleware chain.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, contextKeyClient{}, c)
}

func hostOnly(addr string) string {
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
