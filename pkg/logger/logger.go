// Package logger provides the structured, levelled logger built on log/slog.
//
// WithCtx returns the logger the request-log middleware injected, already
// tagged with the request ID:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "product_id", p.ID)
//	// → time=... level=INFO msg="product created" request_id=0f6c... product_id=7
//
// Telemetry is a second logger reserved for exception records. It writes to
// the same output as L and, once EnableMongo succeeds, also to MongoDB.
package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/shashiranjanraj/sellerhub/config"
)

var (
	L *slog.Logger

	telemetryMu sync.RWMutex
	telemetry   *slog.Logger
)

func init() {
	L = slog.New(newHandler(config.AppEnv()))
	slog.SetDefault(L)
	telemetry = L.With("stream", "telemetry")
}

func newHandler(env string) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "test", "testing":
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

type ctxKey struct{}

// WithCtx returns the request-tagged logger stored in ctx, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the request-log middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Telemetry returns the logger exception records are written to.
func Telemetry() *slog.Logger {
	telemetryMu.RLock()
	defer telemetryMu.RUnlock()
	return telemetry
}

// SetTelemetry swaps the telemetry logger. Tests use it to capture records.
func SetTelemetry(log *slog.Logger) {
	telemetryMu.Lock()
	telemetry = log
	telemetryMu.Unlock()
}

// EnableMongo copies the telemetry stream into MongoDB. The returned
// close function flushes pending documents and disconnects.
func EnableMongo(ctx context.Context, uri, database string) (func(), error) {
	h, err := NewMongoHandler(ctx, uri, database, "telemetry")
	if err != nil {
		return func() {}, err
	}

	telemetryMu.Lock()
	telemetry = slog.New(NewMultiHandler(L.Handler(), h)).With("stream", "telemetry")
	telemetryMu.Unlock()

	return func() {
		telemetryMu.Lock()
		telemetry = L.With("stream", "telemetry")
		telemetryMu.Unlock()
		h.Close()
	}, nil
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
