package app

import (
	"net/http"

	"github.com/shashiranjanraj/sellerhub/config"
	"github.com/shashiranjanraj/sellerhub/pkg/exception"
	"github.com/shashiranjanraj/sellerhub/pkg/metrics"
	"github.com/shashiranjanraj/sellerhub/pkg/middleware"
	"github.com/shashiranjanraj/sellerhub/pkg/reqid"
	"github.com/shashiranjanraj/sellerhub/pkg/router"
)

// Router builds the router with the global middleware stack and every
// registered route.
func (a *Application) Router() (*router.Router, error) {
	if err := reqid.TrustProxies(config.TrustedProxies()); err != nil {
		return nil, err
	}

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics: outermost for total latency
	//  2. Request ID: set before anything logs
	//  3. Logger: request-tagged slog logger and the access line
	//  4. Recovery: panics become a 500 envelope, logged with the request ID
	//  5. CORS
	//  6. Rate limiter, keyed on the client IP
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(config.RateLimit()))

	r.NotFound(exception.NotFoundHandler())
	r.MethodNotAllowed(exception.MethodNotAllowedHandler())

	r.Get("/metrics", "metrics", metrics.Handler())

	for _, fn := range a.routeFns {
		if err := fn(r, a.Docs, a.Issuer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Handler is Router as an http.Handler.
func (a *Application) Handler() (http.Handler, error) {
	r, err := a.Router()
	if err != nil {
		return nil, err
	}
	return r.Handler(), nil
}
