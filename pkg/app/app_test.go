package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/sellerhub/config"
	"github.com/shashiranjanraj/sellerhub/pkg/auth"
	"github.com/shashiranjanraj/sellerhub/pkg/cache"
	"github.com/shashiranjanraj/sellerhub/pkg/database"
	"github.com/shashiranjanraj/sellerhub/pkg/docs"
	"github.com/shashiranjanraj/sellerhub/pkg/logger"
	"github.com/shashiranjanraj/sellerhub/pkg/migration"
	"github.com/shashiranjanraj/sellerhub/pkg/reqid"
	"github.com/shashiranjanraj/sellerhub/pkg/router"
)

type createGadgets struct{}

func (createGadgets) Up(db *gorm.DB) error {
	return db.Exec("CREATE TABLE gadgets (id INTEGER PRIMARY KEY)").Error
}

func (createGadgets) Down(db *gorm.DB) error {
	return db.Exec("DROP TABLE gadgets").Error
}

func init() {
	migration.Register("apptest", "20240101000000_create_gadgets", createGadgets{})
}

func testApp(t *testing.T) *Application {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	m := database.NewManager(nil)
	m.Set("apptest.write", db)

	a := New("sellerhub", "test").WithManager(m).WithCache(cache.NewMemory())
	require.NoError(t, a.Boot(context.Background()))
	t.Cleanup(func() { a.Shutdown() })
	return a
}

func TestMigrateStatusRollback(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	require.NoError(t, a.Migrate(ctx, io.Discard, "apptest"))

	var buf bytes.Buffer
	require.NoError(t, a.MigrationStatus(ctx, &buf, "apptest"))
	assert.Contains(t, buf.String(), "20240101000000_create_gadgets")
	assert.Contains(t, buf.String(), "ran")

	buf.Reset()
	require.NoError(t, a.Rollback(ctx, &buf, "apptest"))
	assert.Contains(t, buf.String(), "Rolled back 1 migration(s).")

	buf.Reset()
	require.NoError(t, a.MigrationStatus(ctx, &buf, "apptest"))
	assert.Contains(t, buf.String(), "pending")
}

func TestMigrateUnknownDatasource(t *testing.T) {
	a := testApp(t)
	// "seller" has no handle in this manager.
	migration.Register("nohandle", "20240101000000_noop", createGadgets{})
	err := a.Migrate(context.Background(), io.Discard, "nohandle")
	assert.ErrorIs(t, err, database.ErrUnknownDataSource)
}

func TestKernelMiddlewareAndFallbacks(t *testing.T) {
	a := testApp(t)
	a.Routes(func(r *router.Router, d *docs.Document, _ *auth.Issuer) error {
		r.Get("/panic", "panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
		return nil
	})
	h, err := a.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/metrics", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "sellerhub_http_requests_total"))
}

func TestKernelPanicIsLoggedWithRequestID(t *testing.T) {
	var logs, telemetry bytes.Buffer
	base, prevTelemetry := logger.L, logger.Telemetry()
	logger.L = slog.New(slog.NewJSONHandler(&logs, nil))
	logger.SetTelemetry(slog.New(slog.NewJSONHandler(&telemetry, nil)))
	t.Cleanup(func() {
		logger.L = base
		logger.SetTelemetry(prevTelemetry)
	})

	a := testApp(t)
	a.Routes(func(r *router.Router, d *docs.Document, _ *auth.Issuer) error {
		r.Get("/panic", "panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
		return nil
	})
	h, err := a.Handler()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(reqid.Header, "req-panic-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-panic-1", rec.Header().Get(reqid.Header))

	var record map[string]any
	require.NoError(t, json.Unmarshal(telemetry.Bytes(), &record))
	assert.Equal(t, "req-panic-1", record["request_id"])

	var panicLine, access map[string]any
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		switch entry["msg"] {
		case "panic recovered":
			panicLine = entry
		case "request":
			access = entry
		}
	}
	require.NotNil(t, panicLine)
	require.NotNil(t, access)
	assert.Equal(t, "req-panic-1", panicLine["request_id"])
	assert.Equal(t, float64(500), access["status"])
}

func TestKernelRejectsBadTrustedProxies(t *testing.T) {
	config.Set("TRUSTED_PROXIES", "10.0.0.0/99")
	t.Cleanup(func() {
		config.Set("TRUSTED_PROXIES", "")
		_ = reqid.TrustProxies(nil)
	})

	_, err := testApp(t).Handler()
	assert.Error(t, err)
}

func TestSelectDatabases(t *testing.T) {
	all := []string{"seller", "shop"}
	assert.Equal(t, all, selectDatabases(all, nil))
	assert.Equal(t, []string{"shop"}, selectDatabases(all, []string{"shop", "other"}))
	assert.Equal(t, "seller.write", writeHandle("seller"))
}
