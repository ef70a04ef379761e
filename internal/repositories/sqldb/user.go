package sqldb

import (
	"context"

	"users-function/internal/models"
	"users-function/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ListUsersQuery is the fixed statement the function serves
const ListUsersQuery = "SELECT * FROM users;"

// UserRepository implements the UserRepository interface
type UserRepository struct {
	*BaseRepository
}

// NewUserRepository creates a user repository bound to one connection
func NewUserRepository(conn repositories.Conn, logger *logrus.Logger) repositories.UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(conn, "users", logger),
	}
}

// ListAll fetches every row of the users table. The cursor is closed before
// returning on every path. The result is never nil.
func (r *UserRepository) ListAll(ctx context.Context) ([]models.UserRecord, error) {
	cursor, err := r.executeQuery(ctx, "query", ListUsersQuery)
	if err != nil {
		return nil, err
	}
	defer r.closeCursor(cursor)

	zoned := r.createdAtZoned(cursor)

	users := make([]models.UserRecord, 0)
	for cursor.Next() {
		values, err := cursor.SliceScan()
		if err != nil {
			return nil, repositories.QueryError("fetch", err)
		}

		record, err := models.MapUserRecord(values, zoned)
		if err != nil {
			return nil, repositories.SchemaError(err)
		}
		users = append(users, record)
	}

	if err := cursor.Err(); err != nil {
		return nil, repositories.QueryError("fetch", err)
	}

	r.logger.WithField("count", len(users)).Debug("Fetched users")
	return users, nil
}

// createdAtZoned reports whether the created_at column is a timestamp with
// time zone. Unknown column types are treated as naive.
func (r *UserRepository) createdAtZoned(cursor repositories.Cursor) bool {
	names, err := cursor.ColumnTypeNames()
	if err != nil {
		r.logger.WithError(err).Debug("Column types unavailable")
		return false
	}

	createdAt := len(models.UserColumns) - 1
	if len(names) <= createdAt {
		return false
	}
	return models.IsZonedTimestampType(names[createdAt])
}
