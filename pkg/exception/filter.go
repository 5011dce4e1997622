package exception

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shashiranjanraj/sellerhub/pkg/logger"
	"github.com/shashiranjanraj/sellerhub/pkg/metrics"
	"github.com/shashiranjanraj/sellerhub/pkg/reqid"
)

// Envelope is the body of every failed response.
type Envelope struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Errors    any    `json:"errors"`
	Code      int    `json:"code"`
	Method    string `json:"method"`
	Path      string `json:"path"`
}

// Telemetry is what gets logged for each rendered failure.
type Telemetry struct {
	RequestID    string
	Method       string
	Path         string
	Status       int
	UserID       string
	IP           string
	UserAgent    string
	Referer      string
	Origin       string
	Host         string
	ForwardedFor string
	Timestamp    time.Time
	Message      string
}

var now = time.Now

// Render writes the failure envelope for err with the error's own status and
// logs a telemetry record for it.
func Render(w http.ResponseWriter, r *http.Request, err error) {
	he := From(err)
	if he == nil {
		he = Internal(nil)
	}

	ts := now().UTC()
	body := Envelope{
		Success:   false,
		Timestamp: ts.Format(time.RFC3339),
		Message:   he.Message,
		Errors:    he.Errors,
		Code:      he.Status,
		Method:    r.Method,
		Path:      r.URL.Path,
	}

	t := BuildTelemetry(r, he.Status, he.Message, ts)
	record(r, t, he)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.Status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// BuildTelemetry collects the request facts worth keeping for a failure.
// The user is read from the bearer token without verifying it; a token that
// does not decode simply leaves UserID empty.
func BuildTelemetry(r *http.Request, status int, message string, ts time.Time) Telemetry {
	return Telemetry{
		RequestID:    reqid.FromCtx(r.Context()),
		Method:       r.Method,
		Path:         r.URL.Path,
		Status:       status,
		UserID:       userFromToken(r),
		IP:           reqid.ClientIP(r),
		UserAgent:    r.UserAgent(),
		Referer:      r.Referer(),
		Origin:       r.Header.Get("Origin"),
		Host:         r.Host,
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
		Timestamp:    ts,
		Message:      message,
	}
}

func userFromToken(r *http.Request) string {
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return ""
	}
	claims, err := auth.DecodeUnverified(token)
	if err != nil {
		return ""
	}
	if claims.UserID != 0 {
		return strconv.FormatUint(uint64(claims.UserID), 10)
	}
	return claims.Subject
}

func record(r *http.Request, t Telemetry, he *HTTPError) {
	metrics.ExceptionsTotal.WithLabelValues(strconv.Itoa(t.Status)).Inc()

	level := slog.LevelWarn
	if t.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	attrs := []any{
		"request_id", t.RequestID,
		"method", t.Method,
		"path", t.Path,
		"status", t.Status,
		"user_id", t.UserID,
		"ip", t.IP,
		"user_agent", t.UserAgent,
		"referer", t.Referer,
		"origin", t.Origin,
		"host", t.Host,
		"forwarded_for", t.ForwardedFor,
	}
	if cause := he.Unwrap(); cause != nil {
		attrs = append(attrs, "error", cause.Error())
	}

	logger.Telemetry().Log(r.Context(), level, t.Message, attrs...)
}

// NotFoundHandler answers unmatched routes with a 404 envelope.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		Render(w, r, NotFound("Cannot "+r.Method+" "+r.URL.Path))
	}
}

// MethodNotAllowedHandler answers a known path hit with the wrong verb.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		Render(w, r, New(http.StatusMethodNotAllowed, ""))
	}
}
