package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	httpserver "users-function/internal/server"

	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the function over HTTP",
	Long:  `Serve GET /api/v1/users and GET /health on the configured port`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (defaults to PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != "" {
		container.Config.Port = servePort
	}

	srv := httpserver.New(container.Config, container.UserService, container.UserHandler, container.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		container.Logger.WithError(err).Error("Server error")
		return err
	}
	return nil
}
