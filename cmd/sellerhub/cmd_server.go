package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/sellerhub/pkg/logger"
)

// sellerhub serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server (and gRPC when GRPC_PORT is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		if err := a.Boot(cmd.Context()); err != nil {
			return err
		}
		defer func() {
			if err := a.Shutdown(); err != nil {
				logger.Error("shutdown", "error", err)
			}
		}()
		return a.Serve(cmd.Context())
	},
}

// sellerhub route:list
var routeListCmd = &cobra.Command{
	Use:     "route:list",
	Aliases: []string{"routes"},
	Short:   "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		if err := a.Boot(cmd.Context()); err != nil {
			return err
		}
		defer a.Shutdown()
		return a.RouteList(cmd.OutOrStdout())
	},
}

// sellerhub docs:export
var docsExportCmd = &cobra.Command{
	Use:   "docs:export",
	Short: "Print the OpenAPI document as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		if err := a.Boot(cmd.Context()); err != nil {
			return err
		}
		defer a.Shutdown()
		if _, err := a.Router(); err != nil {
			return err
		}
		if err := a.Docs.Validate(cmd.Context()); err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(a.Docs)
	},
}
