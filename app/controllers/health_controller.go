package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/sellerhub/pkg/ctx"
	"github.com/shashiranjanraj/sellerhub/pkg/exception"
)

// Pinger is satisfied by database.Manager.
type Pinger interface {
	Ping(ctx context.Context) error
	Names() []string
}

type HealthController struct {
	db Pinger
}

func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health handles GET /health. It pings every datasource that has been
// opened so far and answers 503 when one is down.
func (c *HealthController) Health(x *ctx.Context) error {
	pingCtx, cancel := context.WithTimeout(x.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		return exception.New(http.StatusServiceUnavailable, "Datasource unavailable").WithCause(err)
	}

	x.Success(map[string]any{
		"status":      "ok",
		"datasources": c.db.Names(),
	})
	return nil
}
