// Package migration runs schema migrations per logical database.
//
// The seller and shop databases migrate independently, each against its
// write handle and each with its own tracking table:
//
//	func init() {
//	    migration.Register("shop", "20240101000001_create_products_table", &CreateProductsTable{})
//	}
//
//	type CreateProductsTable struct{}
//	func (m *CreateProductsTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.Product{}) }
//	func (m *CreateProductsTable) Down(db *gorm.DB) error { return db.Migrator().DropTable("products") }
//
// Run from CLI:
//
//	sellerhub migrate             // run all pending, every database
//	sellerhub migrate:rollback    // roll back the last batch of each database
package migration

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/sellerhub/pkg/logger"
	"gorm.io/gorm"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// migrationRecord is the row kept in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

// TrackingTable is the table each database records its migrations in.
const TrackingTable = "sellerhub_migrations"

func (migrationRecord) TableName() string { return TrackingTable }

type registeredMigration struct {
	name string
	m    Migration
}

var (
	mu       sync.RWMutex
	registry = map[string][]registeredMigration{}
)

// Register adds a migration for database. name should be timestamp-prefixed,
// e.g. "20240101000000_create_sellers_table"; pending migrations run in name
// order.
func Register(database, name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry[database] = append(registry[database], registeredMigration{name: name, m: m})
}

// Databases lists every database that has migrations, sorted.
func Databases() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for db := range registry {
		out = append(out, db)
	}
	sort.Strings(out)
	return out
}

func registered(database string) []registeredMigration {
	mu.RLock()
	defer mu.RUnlock()
	out := append([]registeredMigration(nil), registry[database]...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// StatusRow is one line of Status.
type StatusRow struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks the migrations of one database.
type Runner struct {
	database string
	db       *gorm.DB
	out      io.Writer
}

// New creates a Runner for database backed by db. Progress lines go to out;
// pass io.Discard to silence them.
func New(database string, db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{database: database, db: db, out: out}
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

func (r *Runner) pending() ([]registeredMigration, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}

	ranSet := make(map[string]bool, len(ran))
	for _, rec := range ran {
		ranSet[rec.Name] = true
	}

	var pending []registeredMigration
	for _, reg := range registered(r.database) {
		if !ranSet[reg.name] {
			pending = append(pending, reg)
		}
	}
	return pending, nil
}

// Run executes all pending migrations as one batch and returns how many ran.
func (r *Runner) Run() (int, error) {
	if err := r.EnsureTable(); err != nil {
		return 0, fmt.Errorf("migration: %s: ensure table: %w", r.database, err)
	}

	pending, err := r.pending()
	if err != nil {
		return 0, fmt.Errorf("migration: %s: fetch pending: %w", r.database, err)
	}

	if len(pending) == 0 {
		fmt.Fprintf(r.out, "[%s] Nothing to migrate.\n", r.database)
		return 0, nil
	}

	batch := r.lastBatch() + 1

	for _, reg := range pending {
		logger.Info("migration: running", "database", r.database, "name", reg.name)
		fmt.Fprintf(r.out, "[%s] ▶ Migrating: %s\n", r.database, reg.name)

		if err := reg.m.Up(r.db); err != nil {
			return 0, fmt.Errorf("migration: %s: %s up: %w", r.database, reg.name, err)
		}

		record := migrationRecord{Name: reg.name, Batch: batch}
		if err := r.db.Create(&record).Error; err != nil {
			return 0, fmt.Errorf("migration: %s: record %s: %w", r.database, reg.name, err)
		}

		fmt.Fprintf(r.out, "[%s] ✅ Migrated:  %s\n", r.database, reg.name)
	}

	logger.Info("migration: done", "database", r.database, "ran", len(pending), "batch", batch)
	return len(pending), nil
}

// Rollback reverses the most recent batch and returns how many were undone.
func (r *Runner) Rollback() (int, error) {
	if err := r.EnsureTable(); err != nil {
		return 0, fmt.Errorf("migration: %s: ensure table: %w", r.database, err)
	}

	last := r.lastBatch()
	if last == 0 {
		fmt.Fprintf(r.out, "[%s] Nothing to roll back.\n", r.database)
		return 0, nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return 0, err
	}

	regMap := make(map[string]Migration)
	for _, reg := range registered(r.database) {
		regMap[reg.name] = reg.m
	}

	for i, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return i, fmt.Errorf("migration: %s: cannot roll back %s, not registered", r.database, rec.Name)
		}

		fmt.Fprintf(r.out, "[%s] ◀ Rolling back: %s\n", r.database, rec.Name)
		logger.Info("migration: rolling back", "database", r.database, "name", rec.Name)

		if err := m.Down(r.db); err != nil {
			return i, fmt.Errorf("migration: %s: %s down: %w", r.database, rec.Name, err)
		}
		if err := r.db.Delete(&migrationRecord{}, rec.ID).Error; err != nil {
			return i, err
		}
	}

	return len(records), nil
}

// Status reports every registered migration and whether it has run.
func (r *Runner) Status() ([]StatusRow, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, err
	}

	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}

	ranMap := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		ranMap[rec.Name] = rec
	}

	var rows []StatusRow
	for _, reg := range registered(r.database) {
		rec, ok := ranMap[reg.name]
		rows = append(rows, StatusRow{Name: reg.name, Ran: ok, Batch: rec.Batch})
	}
	return rows, nil
}

func (r *Runner) lastBatch() int {
	var maxBatch struct{ Max int }
	r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&maxBatch)
	return maxBatch.Max
}
