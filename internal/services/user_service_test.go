package services

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"users-function/internal/config"
	"users-function/internal/database"
	"users-function/internal/repositories"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func adaRow() []interface{} {
	return []interface{}{int64(1), "Ada", "Lovelace", "ada@example.com", nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestUserService_ListUsers_ReleasesResourcesInOrder(t *testing.T) {
	mock := repositories.NewMockConnector(adaRow())
	service := NewUserService(mock, config.DatabaseConfig{}, testLogger())

	users, err := service.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	if len(users) != 1 || users[0].CreatedAt != "2024-01-01T00:00:00" {
		t.Errorf("unexpected users: %+v", users)
	}

	want := []string{"connect", "query", "close_cursor", "close_conn"}
	if got := mock.Events(); !reflect.DeepEqual(got, want) {
		t.Errorf("Events() = %v, want %v", got, want)
	}
	if mock.OpenConnections() != 0 || mock.OpenCursors() != 0 {
		t.Errorf("leaked resources: %d connections, %d cursors", mock.OpenConnections(), mock.OpenCursors())
	}
}

func TestUserService_ListUsers_Failures(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(m *repositories.MockConnector)
		wantKind   error
		wantEvents []string
	}{
		{
			name:       "connect failure",
			setup:      func(m *repositories.MockConnector) { m.ConnectErr = errors.New("password authentication failed") },
			wantKind:   repositories.ErrConnection,
			wantEvents: []string{"connect"},
		},
		{
			name:       "typed configuration failure",
			setup:      func(m *repositories.MockConnector) { m.ConnectErr = repositories.ConfigurationError(errors.New("DB_HOST missing")) },
			wantKind:   repositories.ErrConfiguration,
			wantEvents: []string{"connect"},
		},
		{
			name:       "query failure",
			setup:      func(m *repositories.MockConnector) { m.QueryErr = errors.New("relation \"users\" does not exist") },
			wantKind:   repositories.ErrQuery,
			wantEvents: []string{"connect", "query", "close_conn"},
		},
		{
			name:       "fetch failure",
			setup:      func(m *repositories.MockConnector) { m.ScanErr = errors.New("bad row") },
			wantKind:   repositories.ErrQuery,
			wantEvents: []string{"connect", "query", "close_cursor", "close_conn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := repositories.NewMockConnector(adaRow())
			tt.setup(mock)
			service := NewUserService(mock, config.DatabaseConfig{}, testLogger())

			users, err := service.ListUsers(context.Background())
			if err == nil {
				t.Fatalf("ListUsers() = %v, want error", users)
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("ListUsers() error = %v, want kind %v", err, tt.wantKind)
			}
			if got := mock.Events(); !reflect.DeepEqual(got, tt.wantEvents) {
				t.Errorf("Events() = %v, want %v", got, tt.wantEvents)
			}
			if mock.OpenConnections() != 0 || mock.OpenCursors() != 0 {
				t.Errorf("leaked resources: %d connections, %d cursors", mock.OpenConnections(), mock.OpenCursors())
			}
		})
	}
}

func TestUserService_ListUsers_CloseErrorsAreSwallowed(t *testing.T) {
	mock := repositories.NewMockConnector(adaRow())
	mock.CursorClose = errors.New("cursor already closed")
	mock.ConnClose = errors.New("connection reset")

	users, err := NewUserService(mock, config.DatabaseConfig{}, testLogger()).ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("ListUsers() returned %d users, want 1", len(users))
	}
}

func TestUserService_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "users.db"),
	}

	if err := database.NewMigrationManager(cfg, testLogger()).RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() failed: %v", err)
	}

	service := NewUserService(database.NewSQLConnector(testLogger()), cfg, testLogger())
	ctx := context.Background()

	if err := service.CheckHealth(ctx); err != nil {
		t.Errorf("CheckHealth() failed: %v", err)
	}

	users, err := service.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("ListUsers() returned %d users from a fresh table", len(users))
	}
}

func TestUserService_CheckHealth_ConfigurationError(t *testing.T) {
	service := NewUserService(database.NewSQLConnector(testLogger()), config.DatabaseConfig{Driver: config.DriverPostgres}, testLogger())

	if err := service.CheckHealth(context.Background()); !repositories.IsConfiguration(err) {
		t.Errorf("CheckHealth() error = %v, want a configuration error", err)
	}
}
