// Package database manages the named gorm handles the application talks to.
//
// Two logical databases ("seller" and "shop") each get a read and a write
// handle. A handle is opened on first use only: Get checks the handle's
// initialized flag and, under the handle's own lock, opens, configures the
// pool, pings and flips the flag. Concurrent first callers open once; a
// failed open leaves the flag down so the next call retries.
package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shashiranjanraj/sellerhub/config"
	"github.com/shashiranjanraj/sellerhub/pkg/logger"
	"github.com/shashiranjanraj/sellerhub/pkg/metrics"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	SellerRead  = "seller.read"
	SellerWrite = "seller.write"
	ShopRead    = "shop.read"
	ShopWrite   = "shop.write"
)

// All lists the datasources registered by FromConfig.
var All = []string{SellerRead, SellerWrite, ShopRead, ShopWrite}

// ErrUnknownDataSource is returned for a name that was never registered.
var ErrUnknownDataSource = errors.New("database: unknown datasource")

type handle struct {
	mu          sync.Mutex
	cfg         config.DataSourceConfig
	db          *gorm.DB
	initialized atomic.Bool
}

// Manager owns every named handle.
type Manager struct {
	opener Opener

	mu      sync.RWMutex
	handles map[string]*handle
}

// NewManager creates an empty manager. A nil opener means DefaultOpener.
func NewManager(opener Opener) *Manager {
	if opener == nil {
		opener = DefaultOpener
	}
	return &Manager{
		opener:  opener,
		handles: make(map[string]*handle),
	}
}

// FromConfig registers the four standard datasources from config.DataSource.
// Nothing is opened until the first Get.
func FromConfig() *Manager {
	m := NewManager(DefaultOpener)
	for _, name := range All {
		m.Register(name, config.DataSource(name))
	}
	return m
}

// Register declares a datasource. Re-registering an opened handle is ignored.
func (m *Manager) Register(name string, cfg config.DataSourceConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.handles[name]; ok {
		h.mu.Lock()
		if !h.initialized.Load() {
			h.cfg = cfg
		}
		h.mu.Unlock()
		return
	}
	m.handles[name] = &handle{cfg: cfg}
}

// Set installs an already-open handle under name and marks it initialized.
func (m *Manager) Set(name string, db *gorm.DB) {
	m.mu.Lock()
	h, ok := m.handles[name]
	if !ok {
		h = &handle{}
		m.handles[name] = h
	}
	m.mu.Unlock()

	h.mu.Lock()
	h.db = db
	h.initialized.Store(db != nil)
	h.mu.Unlock()
}

// Get returns the handle for name, opening it on first use.
func (m *Manager) Get(ctx context.Context, name string) (*gorm.DB, error) {
	h, err := m.lookup(name)
	if err != nil {
		return nil, err
	}

	if h.initialized.Load() {
		return h.db.WithContext(ctx), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.initialized.Load() {
		return h.db.WithContext(ctx), nil
	}

	db, err := m.open(ctx, name, h.cfg)
	if err != nil {
		metrics.DataSourceOpens.WithLabelValues(name, "error").Inc()
		return nil, err
	}
	metrics.DataSourceOpens.WithLabelValues(name, "ok").Inc()

	h.db = db
	h.initialized.Store(true)
	logger.Info("database: datasource initialized", "name", name, "driver", h.cfg.Driver)

	return db.WithContext(ctx), nil
}

// MustGet is Get for startup code; it panics when the handle cannot open.
func (m *Manager) MustGet(name string) *gorm.DB {
	db, err := m.Get(context.Background(), name)
	if err != nil {
		panic(err)
	}
	return db
}

// Initialized reports whether name has been opened.
func (m *Manager) Initialized(name string) bool {
	h, err := m.lookup(name)
	if err != nil {
		return false
	}
	return h.initialized.Load()
}

// Names returns every registered datasource, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.handles))
	for name := range m.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ping checks every initialized handle. Handles never opened are skipped.
func (m *Manager) Ping(ctx context.Context) error {
	var errs []error
	for _, name := range m.Names() {
		h, _ := m.lookup(name)
		if !h.initialized.Load() {
			continue
		}
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every initialized handle and resets its flag.
func (m *Manager) Close() error {
	var errs []error
	for _, name := range m.Names() {
		h, _ := m.lookup(name)

		h.mu.Lock()
		if h.initialized.Load() {
			if sqlDB, err := h.db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", name, err))
				}
			}
			h.db = nil
			h.initialized.Store(false)
		}
		h.mu.Unlock()
	}
	return errors.Join(errs...)
}

func (m *Manager) lookup(name string) (*handle, error) {
	m.mu.RLock()
	h, ok := m.handles[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDataSource, name)
	}
	return h, nil
}

func (m *Manager) open(ctx context.Context, name string, cfg config.DataSourceConfig) (*gorm.DB, error) {
	dialector, err := m.opener(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %s: build dialector: %w", name, err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("database: %s: open: %w", name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: %s: get sql.DB: %w", name, err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database: %s: ping: %w", name, err)
	}

	return db, nil
}
