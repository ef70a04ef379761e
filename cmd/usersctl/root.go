package main

import (
	"fmt"
	"os"

	"users-function/internal/config"
	"users-function/pkg/server"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	envFiles []string
	verbose  bool

	container *server.Container
)

var root = &cobra.Command{
	Use:   "usersctl",
	Short: "usersctl - local tooling for the users function",
	Long: `usersctl runs the users function outside Lambda.
It can serve the function over HTTP, invoke it once with an event, and manage the database schema`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load before reading the environment")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(serveCmd)
	root.AddCommand(invokeCmd)
	root.AddCommand(migrateCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFrom(envFiles...)
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}

	container, err = server.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	return nil
}
