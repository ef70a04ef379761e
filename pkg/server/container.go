package server

import (
	"fmt"

	"users-function/internal/config"
	"users-function/internal/database"
	"users-function/internal/handlers"
	"users-function/internal/logging"
	"users-function/internal/repositories"
	"users-function/internal/services"

	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies. It is built once per
// process; database connections are still opened per invocation by the
// service.
type Container struct {
	Config      *config.Config
	Logger      *logrus.Logger
	Connector   repositories.Connector
	UserService services.UserService
	UserHandler *handlers.UserHandler
}

// Option customizes a Container
type Option func(*Container)

// WithConnector replaces the SQL connector, mainly for tests
func WithConnector(connector repositories.Connector) Option {
	return func(c *Container) {
		c.Connector = connector
	}
}

// WithLogger replaces the logger built from the configuration
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Container) {
		c.Logger = logger
	}
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	container := &Container{Config: cfg}
	for _, opt := range opts {
		opt(container)
	}

	if container.Logger == nil {
		container.Logger = logging.New(cfg.LogLevel, cfg.LogFormat)
	}
	if container.Connector == nil {
		container.Connector = database.NewSQLConnector(container.Logger)
	}

	container.UserService = services.NewUserService(container.Connector, cfg.Database, container.Logger)
	container.UserHandler = handlers.NewUserHandler(container.UserService, container.Logger)

	runtime := config.GetServerlessConfig()
	container.Logger.WithFields(logrus.Fields{
		"environment":   cfg.Environment,
		"mode":          config.GetDeploymentMode(),
		"driver":        cfg.Database.Driver,
		"function_name": runtime.FunctionName,
		"region":        runtime.Region,
		"stage":         runtime.Stage,
	}).Info("Container initialized")

	return container, nil
}

// NewMigrationManager creates a migration manager for the configured database
func (c *Container) NewMigrationManager() *database.MigrationManager {
	return database.NewMigrationManager(c.Config.Database, c.Logger)
}
