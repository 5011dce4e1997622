// Package reqid generates request IDs and carries them through the context.
//
// The ID is read from X-Request-ID when a gateway already set one, otherwise a
// new UUID is minted. It is echoed on the response and attached to every log
// line written through logger.WithCtx(ctx):
//
//	r.Use(reqid.Middleware())
//	id := reqid.FromCtx(r.Context())
package reqid

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Header is the HTTP header name used to propagate the request ID.
const Header = "X-Request-ID"

// maxLen bounds IDs accepted from upstream so they cannot bloat log lines.
const maxLen = 128

// New returns a random (v4) UUID string.
func New() string {
	return uuid.NewString()
}

// WithValue stores id in ctx and returns the new context.
func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx extracts the request ID from ctx, or "" when none is present.
func FromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Middleware injects a request ID into every request context and response.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" || len(id) > maxLen {
				id = New()
			}

			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}

var (
	proxiesMu sync.RWMutex
	proxies   []netip.Prefix
)

// TrustProxies sets the addresses allowed to report the client IP through
// X-Forwarded-For or X-Real-Ip. Entries are IPs or CIDRs; an empty list
// trusts nobody and ClientIP falls back to the connection address.
func TrustProxies(entries []string) error {
	parsed := make([]netip.Prefix, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return fmt.Errorf("reqid: trusted proxy %q: %w", e, err)
			}
			parsed = append(parsed, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			return fmt.Errorf("reqid: trusted proxy %q: %w", e, err)
		}
		a = a.Unmap()
		parsed = append(parsed, netip.PrefixFrom(a, a.BitLen()))
	}

	proxiesMu.Lock()
	proxies = parsed
	proxiesMu.Unlock()
	return nil
}

func trusted(ip string) bool {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	a = a.Unmap()

	proxiesMu.RLock()
	defer proxiesMu.RUnlock()
	for _, p := range proxies {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP returns the caller's address. Forwarding headers count only when
// the connection comes from a trusted proxy: X-Forwarded-For is read right
// to left and the first hop that is not itself a trusted proxy wins, then
// X-Real-Ip. Otherwise it is the connection's remote host.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !trusted(host) {
		return host
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !trusted(hop) {
				return hop
			}
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-Ip")); real != "" {
		return real
	}
	return host
}
