package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shashiranjanraj/sellerhub/pkg/logger"
	"github.com/shashiranjanraj/sellerhub/pkg/reqid"
)

// statusRecorder remembers the status the handler chain wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

type callerKey struct{}

// caller is filled in by JWTGuard further down the chain so the access line
// can name who made the request.
type caller struct {
	claims *auth.Claims
}

func rememberCaller(ctx context.Context, claims *auth.Claims) {
	if c, ok := ctx.Value(callerKey{}).(*caller); ok {
		c.claims = claims
	}
}

// Logger writes one access line per request and injects a request logger
// tagged with request_id for handlers and services to use. Mount it after
// reqid.Middleware and before the routes so chi's route pattern and the
// authenticated seller are known when the line is written.
//
//	r.Use(reqid.Middleware())
//	r.Use(middleware.Logger)
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		who := &caller{}
		ctx := logger.InjectLogger(r.Context(), reqLog)
		ctx = context.WithValue(ctx, callerKey{}, who)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start).String(),
			"ip", reqid.ClientIP(r),
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				attrs = append(attrs, "route", pattern)
			}
		}
		if who.claims != nil {
			attrs = append(attrs, "user_id", who.claims.UserID, "seller_id", who.claims.SellerID)
		}

		level := slog.LevelInfo
		switch {
		case rec.status >= 500:
			level = slog.LevelError
		case rec.status >= 400:
			level = slog.LevelWarn
		}
		reqLog.Log(ctx, level, "request", attrs...)
	})
}
