package database

import (
	"context"
	"fmt"
	"time"

	"users-function/internal/config"
	"users-function/internal/repositories"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLConnector opens a fresh connection for every invocation. Nothing is
// cached between calls to Connect.
type SQLConnector struct {
	logger *logrus.Logger
}

// NewSQLConnector creates a new connector
func NewSQLConnector(logger *logrus.Logger) *SQLConnector {
	if logger == nil {
		logger = logrus.New()
	}
	return &SQLConnector{
		logger: logger,
	}
}

// Connect validates the connection parameters, opens a connection and pings it
func (c *SQLConnector) Connect(ctx context.Context, cfg config.DatabaseConfig) (repositories.Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, repositories.ConfigurationError(err)
	}

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN())
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"driver": cfg.Driver,
			"dsn":    cfg.Redacted(),
		}).WithError(err).Error("Failed to connect to database")
		return nil, repositories.ConnectionError(err)
	}

	// One invocation, one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	c.logger.WithFields(logrus.Fields{
		"driver":   cfg.Driver,
		"dsn":      cfg.Redacted(),
		"duration": time.Since(start),
	}).Debug("Database connection established")

	return &Conn{db: db, logger: c.logger}, nil
}

// Conn is an invocation-scoped connection backed by sqlx
type Conn struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// Query runs a statement and returns its cursor
func (c *Conn) Query(ctx context.Context, query string) (repositories.Cursor, error) {
	rows, err := c.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &cursor{Rows: rows}, nil
}

// cursor adapts *sqlx.Rows to repositories.Cursor
type cursor struct {
	*sqlx.Rows
}

// ColumnTypeNames returns the driver's type name for each column
func (c *cursor) ColumnTypeNames() ([]string, error) {
	types, err := c.Rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.DatabaseTypeName()
	}
	return names, nil
}

// DB returns the underlying sqlx handle
func (c *Conn) DB() *sqlx.DB {
	return c.db
}

// Close closes the connection
func (c *Conn) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	c.logger.Debug("Database connection closed")
	return nil
}

// HealthCheck runs a trivial check query on conn
func HealthCheck(ctx context.Context, conn repositories.Conn) error {
	cursor, err := conn.Query(ctx, "SELECT 1")
	if err != nil {
		return repositories.QueryError("health", err)
	}
	defer cursor.Close()

	if !cursor.Next() {
		if err := cursor.Err(); err != nil {
			return repositories.QueryError("health", err)
		}
		return repositories.QueryError("health", fmt.Errorf("check query returned no rows"))
	}

	values, err := cursor.SliceScan()
	if err != nil {
		return repositories.QueryError("health", err)
	}

	if len(values) != 1 || fmt.Sprint(values[0]) != "1" {
		return repositories.QueryError("health", fmt.Errorf("check query returned unexpected result: %v", values))
	}

	return nil
}
