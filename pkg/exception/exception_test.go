package exception

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shashiranjanraj/sellerhub/pkg/logger"
	"github.com/shashiranjanraj/sellerhub/pkg/reqid"
	"github.com/shashiranjanraj/sellerhub/pkg/validate"
)

func captureTelemetry(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger.Telemetry()
	logger.SetTelemetry(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { logger.SetTelemetry(prev) })
	return &buf
}

func freezeClock(t *testing.T) time.Time {
	t.Helper()
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	prev := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = prev })
	return fixed
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFrom(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"http error", Conflict("taken"), http.StatusConflict},
		{"wrapped http error", fmt.Errorf("svc: %w", BadRequest("seller not found")), http.StatusBadRequest},
		{"validation", validate.Errors{"name": {"required"}}, http.StatusUnprocessableEntity},
		{"record not found", fmt.Errorf("repo: %w", gorm.ErrRecordNotFound), http.StatusNotFound},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, From(tc.err).Status)
		})
	}
	assert.Nil(t, From(nil))
}

func TestRenderValidationEnvelope(t *testing.T) {
	freezeClock(t)
	captureTelemetry(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	Render(rec, req, Validation(validate.Errors{"items.0.sku": {"The sku field is required."}}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "2024-05-01T10:00:00Z", body["timestamp"])
	assert.Equal(t, "Validation failed", body["message"])
	assert.Equal(t, float64(422), body["code"])
	assert.Equal(t, "POST", body["method"])
	assert.Equal(t, "/api/products", body["path"])
	assert.Equal(t, map[string]any{"items.0.sku": []any{"The sku field is required."}}, body["errors"])
}

func TestRenderHidesInternalCause(t *testing.T) {
	captureTelemetry(t)

	rec := httptest.NewRecorder()
	Render(rec, httptest.NewRequest(http.MethodGet, "/api/products/1", nil), errors.New("dial tcp: refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.Nil(t, body["errors"])
	assert.NotContains(t, rec.Body.String(), "refused")
}

func TestRenderLogsTelemetryWithUnverifiedUser(t *testing.T) {
	buf := captureTelemetry(t)
	require.NoError(t, reqid.TrustProxies([]string{"192.0.2.0/24"}))
	t.Cleanup(func() { _ = reqid.TrustProxies(nil) })

	token, _, err := auth.NewIssuer("some-other-secret", time.Hour).Issue(42, 7, "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/products/9", nil)
	req = req.WithContext(reqid.WithValue(req.Context(), "req-1"))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "curl/8.0")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("Origin", "https://shop.example.com")

	Render(httptest.NewRecorder(), req, NotFound("Product not found"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Product not found", entry["msg"])
	assert.Equal(t, "42", entry["user_id"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "203.0.113.7", entry["ip"])
	assert.Equal(t, "curl/8.0", entry["user_agent"])
	assert.Equal(t, "https://shop.example.com", entry["origin"])
	assert.Equal(t, float64(404), entry["status"])
}

func TestRenderIgnoresUndecodableToken(t *testing.T) {
	buf := captureTelemetry(t)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	Render(rec, req, Unauthorized(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decode(t, rec)["message"])

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "", entry["user_id"])
}

func TestServerErrorsLogAtErrorLevel(t *testing.T) {
	buf := captureTelemetry(t)
	Render(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "boom", entry["error"])
}

func TestRouterHandlers(t *testing.T) {
	captureTelemetry(t)

	rec := httptest.NewRecorder()
	NotFoundHandler()(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cannot GET /nope", decode(t, rec)["message"])

	rec = httptest.NewRecorder()
	MethodNotAllowedHandler()(rec, httptest.NewRequest(http.MethodPatch, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method Not Allowed", decode(t, rec)["message"])
}
