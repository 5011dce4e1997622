package config

import (
	"fmt"
	"net/url"
	"strings"
)

// DataSourceConfig describes one database handle.
type DataSourceConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	// Raw overrides every other field when non-empty.
	Raw string
}

// DatabaseDriver is the SQL dialect shared by every datasource.
func DatabaseDriver() string {
	_ = Load()

	driver := strings.ToLower(get("DB_DRIVER", defaultDatabaseDriver))
	switch driver {
	case "sqlite", "postgres", "mysql", "sqlserver":
		return driver
	default:
		return defaultDatabaseDriver
	}
}

// DataSource builds the config for a handle named "<domain>.<role>",
// e.g. "seller.read". Keys are looked up as SELLER_DB_READ_HOST, then
// SELLER_DB_WRITE_HOST (read replicas default to the primary), then
// SELLER_DB_HOST, then DB_HOST.
func DataSource(name string) DataSourceConfig {
	_ = Load()

	domain, role, _ := strings.Cut(strings.ToUpper(name), ".")
	lookup := func(field, fallback string) string {
		keys := []string{
			domain + "_DB_" + role + "_" + field,
			domain + "_DB_WRITE_" + field,
			domain + "_DB_" + field,
			"DB_" + field,
		}
		for _, k := range keys {
			if v := get(k, ""); v != "" {
				return v
			}
		}
		return fallback
	}

	driver := DatabaseDriver()
	return DataSourceConfig{
		Driver:   driver,
		Host:     lookup("HOST", "localhost"),
		Port:     lookup("PORT", defaultPort(driver)),
		User:     lookup("USER", ""),
		Password: lookup("PASSWORD", ""),
		Database: lookup("NAME", strings.ToLower(domain)),
		SSLMode:  lookup("SSLMODE", "disable"),
		Raw:      lookup("DSN", ""),
	}
}

// DSN renders the connection string for the configured driver.
func (c DataSourceConfig) DSN() string {
	if c.Raw != "" {
		return c.Raw
	}

	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			pgQuote(c.Host), pgQuote(c.User), pgQuote(c.Password), pgQuote(c.Database), pgQuote(c.Port), pgQuote(c.SSLMode))
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Database)
	case "sqlserver":
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(c.User, c.Password),
			Host:     c.Host + ":" + c.Port,
			RawQuery: url.Values{"database": {c.Database}}.Encode(),
		}
		return u.String()
	default:
		return c.Database + ".db"
	}
}

// pgQuote renders v as a single-quoted libpq keyword/value, so spaces,
// quotes and backslashes survive.
func pgQuote(v string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}

func defaultPort(driver string) string {
	switch driver {
	case "mysql":
		return "3306"
	case "sqlserver":
		return "1433"
	default:
		return "5432"
	}
}
