// Command sellerhub runs the seller/shop API and its maintenance tasks.
//
//	sellerhub serve                 # start HTTP (+ gRPC when GRPC_PORT is set)
//	sellerhub migrate               # run pending migrations on seller and shop
//	sellerhub migrate:rollback      # roll back the last batch of each
//	sellerhub migrate:status
//	sellerhub seed                  # demo seller, login and product
//	sellerhub route:list
//	sellerhub docs:export > openapi.json
//	sellerhub token:issue --user 1 --seller 1 --username demo
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/sellerhub/app/routes"
	"github.com/shashiranjanraj/sellerhub/config"
	"github.com/shashiranjanraj/sellerhub/pkg/app"

	// Migrations register themselves from init().
	_ "github.com/shashiranjanraj/sellerhub/database/migrations"
)

const version = "1.0.0"

var (
	configFile string
	envFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "sellerhub",
	Short:        "Seller and shop API",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("config") || cmd.Flags().Changed("env") {
			return config.LoadFrom(configFile, envFile)
		}
		return config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config/app.json", "path to the JSON config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the .env file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(docsExportCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(tokenIssueCmd)
}

// newApp returns the application with the API routes attached. It is not
// booted yet.
func newApp() *app.Application {
	return app.New(config.AppName(), version).Routes(routes.RegisterAPI)
}
