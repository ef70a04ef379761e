package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"users-function/internal/config"
	"users-function/internal/database"
	"users-function/internal/repositories"
	"users-function/internal/services"
	"users-function/pkg/lambda"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func newHandler(connector repositories.Connector, cfg config.DatabaseConfig, logger *logrus.Logger) *UserHandler {
	return NewUserHandler(services.NewUserService(connector, cfg, logger), logger)
}

func invoke(h *UserHandler) *lambda.Response {
	ctx := context.Background()
	return h.Handle(ctx, lambda.NewRequest(ctx, json.RawMessage(`{}`)))
}

func TestUserHandler_AdaLovelace(t *testing.T) {
	mock := repositories.NewMockConnector(
		[]interface{}{int64(1), "Ada", "Lovelace", "ada@example.com", nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	)

	resp := invoke(newHandler(mock, config.DatabaseConfig{}, testLogger()))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200 (body %s)", resp.StatusCode, resp.Body)
	}

	want := `[{"id":1,"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","comments":null,"created_at":"2024-01-01T00:00:00"}]`
	if resp.Body != want {
		t.Errorf("Body = %s, want %s", resp.Body, want)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", resp.Headers["Content-Type"])
	}
}

func TestUserHandler_RecordsHaveExactlySixKeys(t *testing.T) {
	mock := repositories.NewMockConnector(
		[]interface{}{int64(1), "Ada", "Lovelace", "ada@example.com", nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		[]interface{}{int64(2), []byte("Grace"), "Hopper", "grace@example.com", "COBOL", "not a timestamp", "extra column"},
	)

	resp := invoke(newHandler(mock, config.DatabaseConfig{}, testLogger()))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", resp.StatusCode)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal([]byte(resp.Body), &records); err != nil {
		t.Fatalf("body is not a JSON array: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	wantKeys := []string{"comments", "created_at", "email", "first_name", "id", "last_name"}
	for i, record := range records {
		keys := make([]string, 0, len(record))
		for k := range record {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if strings.Join(keys, ",") != strings.Join(wantKeys, ",") {
			t.Errorf("record %d keys = %v, want %v", i, keys, wantKeys)
		}
	}

	if records[1]["created_at"] != "not a timestamp" {
		t.Errorf("non-timestamp created_at = %v, want it unchanged", records[1]["created_at"])
	}
	if records[1]["first_name"] != "Grace" {
		t.Errorf("first_name = %v, want Grace", records[1]["first_name"])
	}
}

func TestUserHandler_EmptyTable(t *testing.T) {
	resp := invoke(newHandler(repositories.NewMockConnector(), config.DatabaseConfig{}, testLogger()))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.Body != "[]" {
		t.Errorf("Body = %s, want []", resp.Body)
	}
}

func TestUserHandler_Idempotent(t *testing.T) {
	mock := repositories.NewMockConnector(
		[]interface{}{int64(1), "Ada", "Lovelace", "ada@example.com", nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	)
	handler := newHandler(mock, config.DatabaseConfig{}, testLogger())

	first := invoke(handler)
	second := invoke(handler)

	if first.Body != second.Body {
		t.Errorf("repeated invocations differ:\n%s\n%s", first.Body, second.Body)
	}
	if mock.OpenConnections() != 0 {
		t.Errorf("OpenConnections() = %d after two invocations, want 0", mock.OpenConnections())
	}
}

func TestUserHandler_Failures(t *testing.T) {
	row := []interface{}{int64(1), "Ada", "Lovelace", "ada@example.com", nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name     string
		rows     [][]interface{}
		setup    func(m *repositories.MockConnector)
		wantMsg  string
		wantKind string
	}{
		{
			name:     "connection refused",
			rows:     [][]interface{}{row},
			setup:    func(m *repositories.MockConnector) { m.ConnectErr = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused") },
			wantMsg:  "connection refused",
			wantKind: "connection",
		},
		{
			name:     "wrong password",
			rows:     [][]interface{}{row},
			setup:    func(m *repositories.MockConnector) { m.ConnectErr = errors.New(`pq: password authentication failed for user "reader"`) },
			wantMsg:  "password authentication failed",
			wantKind: "connection",
		},
		{
			name:     "sql error",
			rows:     [][]interface{}{row},
			setup:    func(m *repositories.MockConnector) { m.QueryErr = errors.New(`pq: relation "users" does not exist`) },
			wantMsg:  `relation "users" does not exist`,
			wantKind: "query",
		},
		{
			name:     "unencodable value",
			rows:     [][]interface{}{{math.NaN(), "Ada", "Lovelace", "ada@example.com", nil, "x"}},
			setup:    func(m *repositories.MockConnector) {},
			wantMsg:  "NaN",
			wantKind: "serialization",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := repositories.NewMockConnector(tt.rows...)
			tt.setup(mock)

			var logs bytes.Buffer
			logger := testLogger()
			logger.SetOutput(&logs)
			logger.SetFormatter(&logrus.JSONFormatter{})

			resp := invoke(newHandler(mock, config.DatabaseConfig{}, logger))

			if resp.StatusCode != http.StatusInternalServerError {
				t.Fatalf("StatusCode = %d, want 500", resp.StatusCode)
			}

			var body ErrorResponse
			if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
				t.Fatalf("error body is not JSON: %v (%s)", err, resp.Body)
			}
			if !strings.Contains(body.Error, tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", body.Error, tt.wantMsg)
			}

			if !strings.Contains(logs.String(), `"kind":"`+tt.wantKind+`"`) {
				t.Errorf("error log missing kind %s: %s", tt.wantKind, logs.String())
			}

			if mock.OpenConnections() != 0 || mock.OpenCursors() != 0 {
				t.Errorf("leaked resources: %d connections, %d cursors", mock.OpenConnections(), mock.OpenCursors())
			}
		})
	}
}

func TestUserHandler_InvalidConfiguration(t *testing.T) {
	handler := newHandler(database.NewSQLConnector(testLogger()), config.DatabaseConfig{Driver: config.DriverPostgres}, testLogger())

	resp := invoke(handler)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if !strings.Contains(resp.Body, "DB_HOST") {
		t.Errorf("Body = %s, want it to name the missing setting", resp.Body)
	}
}

func TestUserHandler_SQLiteEndToEnd(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "users.db"),
	}
	if err := database.NewMigrationManager(cfg, testLogger()).RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() failed: %v", err)
	}

	conn, err := database.NewSQLConnector(testLogger()).Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	_, err = conn.(*database.Conn).DB().Exec(
		`INSERT INTO users (id, first_name, last_name, email, comments, created_at)
		 VALUES (1, 'Ada', 'Lovelace', 'ada@example.com', NULL, '2024-01-01 00:00:00')`)
	conn.Close()
	if err != nil {
		t.Fatalf("Failed to seed users: %v", err)
	}

	resp := invoke(newHandler(database.NewSQLConnector(testLogger()), cfg, testLogger()))

	want := `[{"id":1,"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","comments":null,"created_at":"2024-01-01T00:00:00"}]`
	if resp.StatusCode != http.StatusOK || resp.Body != want {
		t.Errorf("response = %d %s, want 200 %s", resp.StatusCode, resp.Body, want)
	}
}

func TestUserHandler_SQLiteUnreachable(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "no", "such", "dir", "users.db"),
	}

	resp := invoke(newHandler(database.NewSQLConnector(testLogger()), cfg, testLogger()))

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d, want 500", resp.StatusCode)
	}
	var body ErrorResponse
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil || body.Error == "" {
		t.Errorf("Body = %s, want a JSON error message", resp.Body)
	}
}
