package services

import (
	"context"
	"time"

	"users-function/internal/config"
	"users-function/internal/database"
	"users-function/internal/models"
	"users-function/internal/repositories"
	"users-function/internal/repositories/sqldb"

	"github.com/sirupsen/logrus"
)

// RepositoryFactory builds a user repository on top of an open connection
type RepositoryFactory func(conn repositories.Conn, logger *logrus.Logger) repositories.UserRepository

// userService implements the UserService interface
type userService struct {
	connector     repositories.Connector
	config        config.DatabaseConfig
	newRepository RepositoryFactory
	logger        *logrus.Logger
}

// NewUserService creates a new user service instance
func NewUserService(connector repositories.Connector, cfg config.DatabaseConfig, logger *logrus.Logger) UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{
		connector:     connector,
		config:        cfg,
		newRepository: sqldb.NewUserRepository,
		logger:        logger,
	}
}

// ListUsers retrieves every user. The repository closes its cursor before
// returning and the deferred close releases the connection afterwards.
func (s *userService) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	start := time.Now()

	conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer s.closeConn(conn)

	users, err := s.newRepository(conn, s.logger).ListAll(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"count":    len(users),
		"duration": time.Since(start),
	}).Info("Listed users")

	return users, nil
}

// CheckHealth verifies the database is reachable with the configured parameters
func (s *userService) CheckHealth(ctx context.Context) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer s.closeConn(conn)

	return database.HealthCheck(ctx, conn)
}

func (s *userService) connect(ctx context.Context) (repositories.Conn, error) {
	conn, err := s.connector.Connect(ctx, s.config)
	if err != nil {
		if repositories.KindOf(err) == nil {
			return nil, repositories.ConnectionError(err)
		}
		return nil, err
	}
	return conn, nil
}

// closeConn releases a connection. Close failures are logged, never returned.
func (s *userService) closeConn(conn repositories.Conn) {
	if err := conn.Close(); err != nil {
		s.logger.WithError(err).Warn("Failed to close database connection")
	}
}
