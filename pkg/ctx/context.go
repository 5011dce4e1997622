// Package ctx gives handlers a single request context and lets them return
// errors instead of writing failure responses themselves.
//
//	func (c *ProductController) Show(x *ctx.Context) error {
//	    id, err := x.ParamUint("id")
//	    if err != nil {
//	        return err
//	    }
//	    claims, err := x.MustClaims()
//	    if err != nil {
//	        return err
//	    }
//	    p, err := c.products.Get(x.Context(), claims.SellerID, id)
//	    if err != nil {
//	        return err
//	    }
//	    x.Success(p)
//	    return nil
//	}
//
//	router.Get("/products/{id}", "products.show", ctx.Wrap(pc.Show))
//
// Any returned error is rendered by exception.Render.
package ctx

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shashiranjanraj/sellerhub/pkg/bind"
	"github.com/shashiranjanraj/sellerhub/pkg/exception"
	"github.com/shashiranjanraj/sellerhub/pkg/logger"
	"github.com/shashiranjanraj/sellerhub/pkg/orm"
	"github.com/shashiranjanraj/sellerhub/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context) error

// Wrap adapts a HandlerFunc to net/http. A returned error is rendered through
// the exception filter unless the handler already wrote a response.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)

		if err := h(c); err != nil {
			if c.status != 0 {
				logger.WithCtx(r.Context()).Error("handler error after response was written",
					"status", c.status, "error", err)
				return
			}
			exception.Render(w, r, err)
		}
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a positive integer path parameter; anything else is a 404
// because no such resource can exist.
func (c *Context) ParamUint(key string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, exception.NotFound("Resource not found")
	}
	return uint(n), nil
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryInt reads an integer query parameter, falling back to def when the
// value is absent or not a number.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Authenticated user ──────────────────────────────────────────────────────

// Claims returns the token claims stored by the JWT guard.
func (c *Context) Claims() (*auth.Claims, bool) {
	return auth.ClaimsFrom(c.R.Context())
}

// MustClaims is Claims for handlers mounted behind the guard. A missing
// claim set means the route was wired without it, so answer 401.
func (c *Context) MustClaims() (*auth.Claims, error) {
	claims, ok := c.Claims()
	if !ok {
		return nil, exception.Unauthorized("")
	}
	return claims, nil
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes and validates the body into dest. The error is ready to
// return from the handler: 400 for a broken body, 422 for rule violations.
//
//	var in requests.CreateProduct
//	if err := c.BindJSON(&in); err != nil {
//	    return err
//	}
func (c *Context) BindJSON(dest any) error {
	return bind.JSON(c.R, dest)
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// Success sends {"success":true,"data":...} with 200.
func (c *Context) Success(data any) {
	c.status = http.StatusOK
	response.Success(c.W, data)
}

// Created sends the success envelope with 201.
func (c *Context) Created(data any) {
	c.status = http.StatusCreated
	response.Created(c.W, data)
}

// NoContent sends a bare 204.
func (c *Context) NoContent() {
	c.status = http.StatusNoContent
	response.NoContent(c.W)
}

// Paginated sends one page of data with its pagination block.
func (c *Context) Paginated(data any, p orm.Pagination) {
	c.status = http.StatusOK
	response.Paginated(c.W, data, p)
}
