package ctx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	appctx "github.com/shashiranjanraj/sellerhub/pkg/ctx"
	"github.com/shashiranjanraj/sellerhub/pkg/exception"
	"github.com/shashiranjanraj/sellerhub/pkg/orm"
)

func serve(h appctx.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	appctx.Wrap(h)(rec, req)
	return rec
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSuccessEnvelope(t *testing.T) {
	rec := serve(func(c *appctx.Context) error {
		c.Success(map[string]any{"id": 1})
		return nil
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	b := body(t, rec)
	assert.Equal(t, true, b["success"])
	assert.Equal(t, map[string]any{"id": float64(1)}, b["data"])
}

func TestCreatedAndNoContent(t *testing.T) {
	rec := serve(func(c *appctx.Context) error {
		c.Created("ok")
		return nil
	}, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(func(c *appctx.Context) error {
		c.NoContent()
		return nil
	}, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestPaginated(t *testing.T) {
	rec := serve(func(c *appctx.Context) error {
		c.Paginated([]int{1, 2}, orm.Pagination{Page: 1, PerPage: 2, Total: 5, LastPage: 3})
		return nil
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	b := body(t, rec)
	assert.Equal(t, []any{float64(1), float64(2)}, b["data"])
	assert.Equal(t, float64(5), b["meta"].(map[string]any)["total"])
}

func TestReturnedErrorIsRendered(t *testing.T) {
	rec := serve(func(c *appctx.Context) error {
		return exception.BadRequest("seller not found")
	}, httptest.NewRequest(http.MethodPost, "/api/products", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	b := body(t, rec)
	assert.Equal(t, false, b["success"])
	assert.Equal(t, "seller not found", b["message"])
	assert.Equal(t, "/api/products", b["path"])
}

func TestErrorAfterWriteIsNotRenderedTwice(t *testing.T) {
	rec := serve(func(c *appctx.Context) error {
		c.Success("done")
		return errors.New("late failure")
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", body(t, rec)["data"])
}

func TestBindJSON(t *testing.T) {
	type input struct {
		Name  string `json:"name"  validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"John","email":"john@example.com"}`))
	rec := serve(func(c *appctx.Context) error {
		var in input
		if err := c.BindJSON(&in); err != nil {
			return err
		}
		c.Success(in.Name)
		return nil
	}, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))
	rec = serve(func(c *appctx.Context) error {
		var in input
		return c.BindJSON(&in)
	}, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := body(t, rec)["errors"].(map[string]any)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/products/{id}", appctx.Wrap(func(c *appctx.Context) error {
		id, err := c.ParamUint("id")
		if err != nil {
			return err
		}
		c.Success(id)
		return nil
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/12", nil))
	assert.Equal(t, float64(12), body(t, rec)["data"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQueryHelpers(t *testing.T) {
	serve(func(c *appctx.Context) error {
		assert.Equal(t, 3, c.QueryInt("page", 1))
		assert.Equal(t, 15, c.QueryInt("per_page", 15))
		return nil
	}, httptest.NewRequest(http.MethodGet, "/?page=3&per_page=x", nil))
}

func TestClaims(t *testing.T) {
	rec := serve(func(c *appctx.Context) error {
		_, err := c.MustClaims()
		return err
	}, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: 5, SellerID: 2}))
	serve(func(c *appctx.Context) error {
		claims, err := c.MustClaims()
		require.NoError(t, err)
		assert.Equal(t, uint(2), claims.SellerID)
		return nil
	}, req)
}
