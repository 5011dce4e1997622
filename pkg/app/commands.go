package app

// Implementations behind the CLI sub-commands. cmd/sellerhub only parses
// flags and calls these.

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shashiranjanraj/sellerhub/database/seeders"
	"github.com/shashiranjanraj/sellerhub/pkg/migration"
	"gorm.io/gorm"
)

// writeHandle maps a logical database to the datasource it migrates on.
func writeHandle(database string) string { return database + ".write" }

func (a *Application) runner(ctx context.Context, database string, out io.Writer) (*migration.Runner, error) {
	db, err := a.Manager.Get(ctx, writeHandle(database))
	if err != nil {
		return nil, err
	}
	return migration.New(database, db, out), nil
}

// Migrate runs pending migrations on every database, or only on the named
// ones.
func (a *Application) Migrate(ctx context.Context, out io.Writer, only ...string) error {
	for _, database := range selectDatabases(migration.Databases(), only) {
		r, err := a.runner(ctx, database, out)
		if err != nil {
			return err
		}
		if _, err := r.Run(); err != nil {
			return err
		}
	}
	return nil
}

// Rollback reverses the last batch of every selected database.
func (a *Application) Rollback(ctx context.Context, out io.Writer, only ...string) error {
	for _, database := range selectDatabases(migration.Databases(), only) {
		r, err := a.runner(ctx, database, out)
		if err != nil {
			return err
		}
		n, err := r.Rollback()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[%s] Rolled back %d migration(s).\n", database, n)
	}
	return nil
}

// MigrationStatus prints one table row per registered migration.
func (a *Application) MigrationStatus(ctx context.Context, out io.Writer, only ...string) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "DATABASE\tMIGRATION\tSTATUS\tBATCH")
	for _, database := range selectDatabases(migration.Databases(), only) {
		r, err := a.runner(ctx, database, io.Discard)
		if err != nil {
			return err
		}
		rows, err := r.Status()
		if err != nil {
			return err
		}
		for _, row := range rows {
			state, batch := "pending", "-"
			if row.Ran {
				state, batch = "ran", fmt.Sprint(row.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", database, row.Name, state, batch)
		}
	}
	return w.Flush()
}

// Seed runs the seeders of every selected database against its write handle.
func (a *Application) Seed(ctx context.Context, out io.Writer, only ...string) error {
	other := func(database string) (*gorm.DB, error) {
		db, err := a.Manager.Get(ctx, writeHandle(database))
		if err != nil {
			return nil, err
		}
		return db.WithContext(ctx), nil
	}

	for _, database := range selectDatabases(seeders.Databases(), only) {
		db, err := other(database)
		if err != nil {
			return err
		}
		if err := seeders.RunAll(database, db, other, out); err != nil {
			return err
		}
	}
	return nil
}

// RouteList prints every registered route. It builds the router without
// resolving any controller, so no datasource is opened.
func (a *Application) RouteList(out io.Writer) error {
	r, err := a.Router()
	if err != nil {
		return err
	}

	infos := r.Routes()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No named routes registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}

func selectDatabases(all, only []string) []string {
	if len(only) == 0 {
		return all
	}
	want := make(map[string]bool, len(only))
	for _, o := range only {
		want[o] = true
	}
	var out []string
	for _, db := range all {
		if want[db] {
			out = append(out, db)
		}
	}
	return out
}
