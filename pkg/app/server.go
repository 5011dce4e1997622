package app

import (
	"context"

	"github.com/shashiranjanraj/sellerhub/config"
	"github.com/shashiranjanraj/sellerhub/internal/server"
)

// Serve builds the HTTP handler and hands it to internal/server, which owns
// the listen, gRPC and graceful-shutdown lifecycle.
func (a *Application) Serve(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}
	return server.Run(ctx, handler, server.Options{
		Addr:     ":" + config.AppPort(),
		GRPCPort: config.GRPCPort(),
		Checker:  a.Manager,
	})
}
