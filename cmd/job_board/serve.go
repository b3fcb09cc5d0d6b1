package main

import (
	"github.com/spf13/cobra"

	"github.com/daniel/job-board/internal/config"
	"github.com/daniel/job-board/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway",
	Long:  "Starts the local HTTP gateway exposing job browsing, resume upload, session, and admin dashboard endpoints over the remote backend.",
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (defaults to PORT env or 8080)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	srv, err := server.New(*cfg)
	if err != nil {
		return err
	}
	return srv.Start()
}
