package sqldb

import (
	"context"
	"time"

	"users-function/internal/repositories"

	"github.com/sirupsen/logrus"
)

// BaseRepository provides common functionality for repositories that run on
// an invocation-scoped connection
type BaseRepository struct {
	conn   repositories.Conn
	table  string
	logger *logrus.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(conn repositories.Conn, table string, logger *logrus.Logger) *BaseRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &BaseRepository{
		conn:   conn,
		table:  table,
		logger: logger,
	}
}

// logQuery logs a query with its execution time
func (r *BaseRepository) logQuery(operation string, query string, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"query":     query,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *BaseRepository) executeQuery(ctx context.Context, operation, query string) (repositories.Cursor, error) {
	start := time.Now()
	cursor, err := r.conn.Query(ctx, query)
	duration := time.Since(start)

	r.logQuery(operation, query, duration, err)

	if err != nil {
		return nil, repositories.QueryError(operation, err)
	}

	return cursor, nil
}

// closeCursor releases a cursor. Close failures are logged, never returned.
func (r *BaseRepository) closeCursor(cursor repositories.Cursor) {
	if err := cursor.Close(); err != nil {
		r.logger.WithError(err).WithField("table", r.table).Warn("Failed to close cursor")
	}
}
