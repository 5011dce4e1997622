package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadFromMergesSources(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{"app_name":"from-json","jwt_ttl":"1h","api_prefix":"json"}`)
	envPath := writeFile(t, dir, ".env", "API_PREFIX=/v1/\nSELLER_DB_WRITE_HOST=primary.local\n# comment\nJWT_SECRET=\"quoted\"\n")

	t.Setenv("APP_PORT", "9999")
	require.NoError(t, LoadFrom(jsonPath, envPath))

	assert.Equal(t, "from-json", AppName())
	assert.Equal(t, time.Hour, JWTTTL())
	assert.Equal(t, "/v1", APIPrefix(), ".env wins over app.json")
	assert.Equal(t, "quoted", JWTSecret())
	assert.Equal(t, "9999", AppPort(), "process env wins over files")
}

func TestLoadFromMissingFilesUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadFrom(filepath.Join(dir, "nope.json"), filepath.Join(dir, "nope.env")))

	assert.Equal(t, "/api", APIPrefix())
	assert.Equal(t, int64(4<<20), MaxBodyBytes())
	assert.Equal(t, "postgres", DatabaseDriver())
}

func TestLoadFromRejectsBrokenJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{broken`)
	assert.Error(t, LoadFrom(jsonPath, filepath.Join(dir, "nope.env")))
}

func TestDataSourceFallsBackFromReadToWrite(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", `
DB_DRIVER=postgres
SELLER_DB_WRITE_HOST=seller-primary
SELLER_DB_WRITE_USER=seller
SELLER_DB_WRITE_PASSWORD=secret
SELLER_DB_WRITE_NAME=seller_db
SELLER_DB_READ_HOST=seller-replica
SHOP_DB_DSN=host=shop user=shop dbname=shop
`)
	require.NoError(t, LoadFrom(filepath.Join(dir, "nope.json"), envPath))

	read := DataSource("seller.read")
	assert.Equal(t, "seller-replica", read.Host)
	assert.Equal(t, "seller", read.User, "read role inherits the write user")
	assert.Equal(t, "seller_db", read.Database)
	assert.Equal(t, "5432", read.Port)
	assert.Contains(t, read.DSN(), "host='seller-replica'")

	write := DataSource("seller.write")
	assert.Equal(t, "seller-primary", write.Host)

	shop := DataSource("shop.write")
	assert.Equal(t, "host=shop user=shop dbname=shop", shop.DSN())
}

func TestDataSourceDSNPerDriver(t *testing.T) {
	base := DataSourceConfig{Host: "h", Port: "1", User: "u", Password: "p", Database: "d", SSLMode: "disable"}

	mysql := base
	mysql.Driver = "mysql"
	assert.Equal(t, "u:p@tcp(h:1)/d?charset=utf8mb4&parseTime=True&loc=Local", mysql.DSN())

	mssql := base
	mssql.Driver = "sqlserver"
	assert.Equal(t, "sqlserver://u:p@h:1?database=d", mssql.DSN())

	pg := base
	pg.Driver = "postgres"
	assert.Equal(t, "host='h' user='u' password='p' dbname='d' port='1' sslmode='disable'", pg.DSN())

	lite := base
	lite.Driver = "sqlite"
	assert.Equal(t, "d.db", lite.DSN())
}

func TestPostgresDSNQuotesAwkwardPasswords(t *testing.T) {
	c := DataSourceConfig{Driver: "postgres", Host: "db", Port: "5432", User: "app", Password: `it's a \secret`, Database: "shop", SSLMode: "require"}
	assert.Equal(t, `host='db' user='app' password='it\'s a \\secret' dbname='shop' port='5432' sslmode='require'`, c.DSN())

	c.Password = ""
	assert.Contains(t, c.DSN(), "password='' dbname='shop'")
}

func TestSetOverridesValue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadFrom(filepath.Join(dir, "a"), filepath.Join(dir, "b")))

	Set("rate_limit_rps", "5")
	rps, burst := RateLimit()
	assert.Equal(t, 5.0, rps)
	assert.Equal(t, 40, burst)
}
