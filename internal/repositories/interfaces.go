package repositories

import (
	"context"

	"users-function/internal/config"
	"users-function/internal/models"
)

// Cursor iterates over the rows of one query
type Cursor interface {
	Next() bool
	SliceScan() ([]interface{}, error)
	Err() error
	Close() error
	// ColumnTypeNames returns the database type of each result column, as
	// reported by the driver (TIMESTAMPTZ, TIMESTAMP, DATETIME, ...)
	ColumnTypeNames() ([]string, error)
}

// Conn is a database connection scoped to a single invocation
type Conn interface {
	Query(ctx context.Context, query string) (Cursor, error)
	Close() error
}

// Connector opens invocation-scoped connections
type Connector interface {
	Connect(ctx context.Context, cfg config.DatabaseConfig) (Conn, error)
}

// UserRepository defines the read operations on the users table
type UserRepository interface {
	// ListAll returns every row of the users table in the order the database yields them
	ListAll(ctx context.Context) ([]models.UserRecord, error)
}
