package services

import (
	"context"

	"users-function/internal/models"
)

// UserService defines the operations behind the users function
type UserService interface {
	// ListUsers opens a connection, reads every user and releases the
	// connection before returning.
	ListUsers(ctx context.Context) ([]models.UserRecord, error)

	// CheckHealth opens a connection, runs a check query and releases it
	CheckHealth(ctx context.Context) error
}
