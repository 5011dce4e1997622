package database

import (
	"fmt"

	"github.com/shashiranjanraj/sellerhub/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// Opener turns a datasource config into a gorm dialector. Tests replace it
// to hand the manager a mocked connection.
type Opener func(cfg config.DataSourceConfig) (gorm.Dialector, error)

// DefaultOpener supports the four drivers accepted by DB_DRIVER.
func DefaultOpener(cfg config.DataSourceConfig) (gorm.Dialector, error) {
	dsn := cfg.DSN()
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", cfg.Driver)
	}
}
