package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/doctranslate/internal/core"
)

// WithRequestMetadata adds IP and User-Agent to context for job history.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.WithRequestMeta(ctx, core.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
}

// clientIP returns the request's remote address without the port.
// RemoteAddr has already been rewritten by TrustedRealIP for proxied requests.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
