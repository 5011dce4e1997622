// Package app assembles a sellerhub process: the datasource manager, the
// cache, the token issuer, the HTTP kernel and the API docs.
//
//	a := app.New("sellerhub", "1.0.0").
//	    Routes(routes.RegisterAPI)
//	if err := a.Boot(ctx); err != nil { ... }
//	defer a.Shutdown()
//	return a.Serve(ctx)
//
// Boot never opens a datasource. Handles connect lazily on first use.
package app

import (
	"context"
	"errors"
	"io"

	"github.com/shashiranjanraj/sellerhub/app/providers"
	"github.com/shashiranjanraj/sellerhub/config"
	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shashiranjanraj/sellerhub/pkg/cache"
	"github.com/shashiranjanraj/sellerhub/pkg/container"
	"github.com/shashiranjanraj/sellerhub/pkg/database"
	"github.com/shashiranjanraj/sellerhub/pkg/docs"
	"github.com/shashiranjanraj/sellerhub/pkg/logger"
	"github.com/shashiranjanraj/sellerhub/pkg/router"
)

// RouteFunc registers routes on r and documents them in d.
type RouteFunc func(r *router.Router, d *docs.Document, issuer *auth.Issuer) error

// Application is the central configuration object of a sellerhub process.
type Application struct {
	name    string
	version string

	routeFns []RouteFunc

	Manager *database.Manager
	Cache   cache.Store
	Issuer  *auth.Issuer
	Docs    *docs.Document

	closers []func() error
}

// New creates an Application. Call Boot before Handler or Serve.
func New(name, version string) *Application {
	return &Application{name: name, version: version}
}

// Routes appends a route-registration callback. Callbacks run in order when
// the kernel is built.
func (a *Application) Routes(fn RouteFunc) *Application {
	a.routeFns = append(a.routeFns, fn)
	return a
}

// WithManager replaces the config-driven datasource manager. Tests pass one
// with pre-opened sqlite handles.
func (a *Application) WithManager(m *database.Manager) *Application {
	a.Manager = m
	return a
}

// WithCache replaces the Redis-backed cache.
func (a *Application) WithCache(s cache.Store) *Application {
	a.Cache = s
	return a
}

// Boot wires the container. A Redis or MongoDB outage degrades to the
// null cache and stdout-only telemetry instead of failing.
func (a *Application) Boot(ctx context.Context) error {
	if a.Manager == nil {
		a.Manager = database.FromConfig()
	}
	a.closers = append(a.closers, a.Manager.Close)

	if a.Cache == nil {
		store, err := cache.Connect(ctx)
		if err != nil {
			logger.Warn("cache: redis unavailable, caching disabled", "error", err)
		}
		a.Cache = store
		if c, ok := store.(io.Closer); ok {
			a.closers = append(a.closers, c.Close)
		}
	}

	if uri := config.MongoURI(); uri != "" {
		closeMongo, err := logger.EnableMongo(ctx, uri, config.MongoDatabase())
		if err != nil {
			logger.Warn("telemetry: mongodb unavailable, logging to stdout only", "error", err)
		} else {
			a.closers = append(a.closers, func() error { closeMongo(); return nil })
		}
	}

	if a.Issuer == nil {
		a.Issuer = auth.DefaultIssuer()
	}
	a.Docs = docs.New(a.name, a.version)

	container.Reset()
	providers.RegisterDataSources(a.Manager)
	providers.RegisterServices(a.Issuer, a.Cache)
	return nil
}

// Shutdown releases everything Boot opened, in reverse order.
func (a *Application) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
