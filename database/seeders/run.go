// Package seeders provides a per-database registry of seed functions.
//
// Define a seeder in any file in this package:
//
//	func init() {
//	    seeders.Register("seller", "demo_seller", SeedDemoSeller)
//	}
//
// Then run via CLI: sellerhub seed
package seeders

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// Handles opens another logical database's write handle, for seeders whose
// rows refer across databases.
type Handles func(database string) (*gorm.DB, error)

// SeederFunc is the signature for a seed function. db is the database the
// seeder is registered for.
type SeederFunc func(db *gorm.DB, other Handles) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries = map[string][]seederEntry{}
)

// Register adds a seeder for database. Call this from init().
func Register(database, name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries[database] = append(entries[database], seederEntry{name: name, fn: fn})
}

// Databases lists every database that has seeders, sorted.
func Databases() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(entries))
	for db := range entries {
		out = append(out, db)
	}
	sort.Strings(out)
	return out
}

// RunAll executes every seeder registered for database, in registration
// order, and stops on the first error.
func RunAll(database string, db *gorm.DB, other Handles, out io.Writer) error {
	mu.Lock()
	current := make([]seederEntry, len(entries[database]))
	copy(current, entries[database])
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintf(out, "  (no seeders registered for %s)\n", database)
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(out, "  • Running seeder: %s/%s … ", database, e.name)
		if err := e.fn(db, other); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}
