// Package routes registers the HTTP API and documents every route it adds.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/sellerhub/app/controllers"
	"github.com/shashiranjanraj/sellerhub/app/models"
	"github.com/shashiranjanraj/sellerhub/app/providers"
	"github.com/shashiranjanraj/sellerhub/app/requests"
	"github.com/shashiranjanraj/sellerhub/app/services"
	"github.com/shashiranjanraj/sellerhub/config"
	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shashiranjanraj/sellerhub/pkg/container"
	"github.com/shashiranjanraj/sellerhub/pkg/ctx"
	"github.com/shashiranjanraj/sellerhub/pkg/docs"
	"github.com/shashiranjanraj/sellerhub/pkg/middleware"
	"github.com/shashiranjanraj/sellerhub/pkg/router"
)

// action resolves the controller bound to token when the first request
// arrives, so registering routes never opens a datasource.
func action[T any](token string, h func(T, *ctx.Context) error) http.HandlerFunc {
	return ctx.Wrap(func(x *ctx.Context) error {
		c, err := container.MakeAs[T](token)
		if err != nil {
			return err
		}
		return h(c, x)
	})
}

type api struct {
	group *router.Group
	docs  *docs.Document
}

func (a api) add(method, path, name string, h http.HandlerFunc, op docs.Operation) error {
	switch method {
	case http.MethodGet:
		a.group.Get(path, name, h)
	case http.MethodPost:
		a.group.Post(path, name, h)
	case http.MethodPut:
		a.group.Put(path, name, h)
	case http.MethodPatch:
		a.group.Patch(path, name, h)
	case http.MethodDelete:
		a.group.Delete(path, name, h)
	}
	if op.ID == "" {
		op.ID = name
	}
	full := a.group.Prefix()
	if path != "/" {
		full = joinDocPath(full, path)
	}
	return a.docs.AddOperation(method, full, op)
}

func joinDocPath(prefix, path string) string {
	if prefix == "/" {
		prefix = ""
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return prefix + path
}

// RegisterAPI mounts every route under API_PREFIX and serves the docs at
// <prefix>/docs.
func RegisterAPI(r *router.Router, d *docs.Document, issuer *auth.Issuer) error {
	prefix := config.APIPrefix()
	if prefix == "" {
		prefix = "/"
	}

	public := api{group: r.Group(prefix), docs: d}
	guarded := api{group: r.Group(prefix, middleware.JWTGuard(issuer)), docs: d}

	productBody := models.Product{Items: []models.ProductItem{{}}}

	routes := []struct {
		a      api
		method string
		path   string
		name   string
		h      http.HandlerFunc
		op     docs.Operation
	}{
		{public, http.MethodGet, "/health", "health",
			action(providers.HealthController, (*controllers.HealthController).Health),
			docs.Operation{Summary: "Service health", Tag: "system"}},

		{public, http.MethodPost, "/auth/login", "auth.login",
			action(providers.AuthController, (*controllers.AuthController).Login),
			docs.Operation{
				Summary: "Exchange credentials for an access token", Tag: "auth",
				Request:   requests.Login{},
				Responses: map[int]docs.Response{http.StatusOK: {Description: "Token issued", Body: services.LoginResult{}}},
			}},

		{guarded, http.MethodGet, "/auth/me", "auth.me",
			action(providers.AuthController, (*controllers.AuthController).Me),
			docs.Operation{
				Summary: "Current seller user", Tag: "auth", Security: docs.Bearer,
				Responses: map[int]docs.Response{http.StatusOK: {Description: "OK", Body: models.SellerUser{}}},
			}},

		{guarded, http.MethodGet, "/products", "products.index",
			action(providers.ProductController, (*controllers.ProductController).Index),
			docs.Operation{
				Summary: "List products", Tag: "products", Security: docs.Bearer,
				Query:     []string{"page", "per_page"},
				Responses: map[int]docs.Response{http.StatusOK: {Description: "One page of products", Body: []models.Product{productBody}}},
			}},

		{guarded, http.MethodPost, "/products", "products.store",
			action(providers.ProductController, (*controllers.ProductController).Store),
			docs.Operation{
				Summary: "Create a product", Tag: "products", Security: docs.Bearer,
				Request:   requests.CreateProduct{},
				Responses: map[int]docs.Response{http.StatusCreated: {Description: "Created", Body: productBody}},
			}},

		{guarded, http.MethodGet, "/products/{id}", "products.show",
			action(providers.ProductController, (*controllers.ProductController).Show),
			docs.Operation{
				Summary: "Show a product", Tag: "products", Security: docs.Bearer,
				Responses: map[int]docs.Response{http.StatusOK: {Description: "OK", Body: productBody}},
			}},

		{guarded, http.MethodPut, "/products/{id}", "products.update",
			action(providers.ProductController, (*controllers.ProductController).Update),
			docs.Operation{
				Summary: "Update a product", Tag: "products", Security: docs.Bearer,
				Request:   requests.UpdateProduct{},
				Responses: map[int]docs.Response{http.StatusOK: {Description: "Updated", Body: productBody}},
			}},

		{guarded, http.MethodDelete, "/products/{id}", "products.destroy",
			action(providers.ProductController, (*controllers.ProductController).Destroy),
			docs.Operation{
				Summary: "Delete a product", Tag: "products", Security: docs.Bearer,
				Responses: map[int]docs.Response{http.StatusNoContent: {Description: "Deleted"}},
			}},
	}

	for _, rt := range routes {
		if err := rt.a.add(rt.method, rt.path, rt.name, rt.h, rt.op); err != nil {
			return err
		}
	}

	docsPath := joinDocPath(public.group.Prefix(), "/docs")
	public.group.Mount("/docs", "docs", d.Handler(docsPath),
		middleware.BasicAuth(config.AppName()+" docs", config.DocsUser(), config.DocsPassword()))
	return nil
}
