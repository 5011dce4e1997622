package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/sellerhub/pkg/app"
)

var databases []string

// withApp boots an application for a one-shot command and shuts it down
// afterwards.
func withApp(cmd *cobra.Command, fn func(a *app.Application) error) error {
	a := newApp()
	if err := a.Boot(cmd.Context()); err != nil {
		return err
	}
	defer a.Shutdown()
	return fn(a)
}

// sellerhub migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.Application) error {
			cmd.Println("Running migrations…")
			return a.Migrate(cmd.Context(), cmd.OutOrStdout(), databases...)
		})
	},
}

// sellerhub migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.Application) error {
			cmd.Println("Rolling back last batch…")
			return a.Rollback(cmd.Context(), cmd.OutOrStdout(), databases...)
		})
	},
}

// sellerhub migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.Application) error {
			return a.MigrationStatus(cmd.Context(), cmd.OutOrStdout(), databases...)
		})
	},
}

// sellerhub seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.Application) error {
			cmd.Println("Running seeders…")
			return a.Seed(cmd.Context(), cmd.OutOrStdout(), databases...)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{migrateCmd, migrateRollbackCmd, migrateStatusCmd, seedCmd} {
		c.Flags().StringSliceVar(&databases, "database", nil, "limit to these databases (seller, shop)")
	}
}
