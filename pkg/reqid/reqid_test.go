package reqid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareGeneratesID(t *testing.T) {
	var seen string
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(Header))
}

func TestMiddlewareHonoursUpstreamID(t *testing.T) {
	var seen string
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, "gateway-42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "gateway-42", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, strings.Repeat("x", maxLen+1))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, strings.Repeat("x", maxLen+1), seen)
}

func TestClientIPIgnoresHeadersFromUntrustedPeers(t *testing.T) {
	require.NoError(t, TrustProxies(nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:51234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("X-Real-Ip", "172.16.0.1")
	assert.Equal(t, "198.51.100.4", ClientIP(req))
}

func TestClientIPBehindTrustedProxy(t *testing.T) {
	require.NoError(t, TrustProxies([]string{"10.0.0.0/8", "192.168.1.1"}))
	t.Cleanup(func() { _ = TrustProxies(nil) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:51234"
	assert.Equal(t, "10.0.0.9", ClientIP(req))

	req.Header.Set("X-Real-Ip", "172.16.0.1")
	assert.Equal(t, "172.16.0.1", ClientIP(req))

	// A spoofed leftmost hop is skipped: the nearest untrusted hop wins.
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", ClientIP(req))

	req.RemoteAddr = "192.168.1.1:443"
	assert.Equal(t, "203.0.113.7", ClientIP(req))

	req.RemoteAddr = "192.168.1.2:443"
	assert.Equal(t, "192.168.1.2", ClientIP(req))
}

func TestTrustProxiesRejectsGarbage(t *testing.T) {
	assert.Error(t, TrustProxies([]string{"not-an-ip"}))
	assert.Error(t, TrustProxies([]string{"10.0.0.0/99"}))
}
