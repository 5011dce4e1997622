package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sellerhub/pkg/ctx"
)

type pingerMock struct{ mock.Mock }

func (m *pingerMock) Ping(c context.Context) error { return m.Called(c).Error(0) }
func (m *pingerMock) Names() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func serveHealth(t *testing.T, p Pinger) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	h := ctx.Wrap(NewHealthController(p).Health)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthReportsOpenedDatasources(t *testing.T) {
	p := new(pingerMock)
	p.On("Ping", mock.Anything).Return(nil)
	p.On("Names").Return([]string{"seller.read", "shop.write"})

	rec, body := serveHealth(t, p)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, []any{"seller.read", "shop.write"}, data["datasources"])
	p.AssertExpectations(t)
}

func TestHealthUnavailableWhenPingFails(t *testing.T) {
	p := new(pingerMock)
	p.On("Ping", mock.Anything).Return(errors.New("shop.read: connection refused"))

	rec, body := serveHealth(t, p)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Datasource unavailable", body["message"])
	p.AssertNotCalled(t, "Names")
}
