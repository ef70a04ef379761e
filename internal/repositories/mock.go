package repositories

import (
	"context"
	"sync"

	"users-function/internal/config"
)

// MockConnector is an in-memory Connector for testing. It serves a fixed set
// of rows and records every connection and cursor lifecycle event.
type MockConnector struct {
	mu sync.Mutex

	// Rows returned by every query
	Rows [][]interface{}

	// Column type names reported by every cursor
	ColumnTypes []string

	// Injected failures
	ConnectErr  error
	QueryErr    error
	ScanErr     error
	IterErr     error
	CursorClose error
	ConnClose   error

	events      []string
	openConns   int
	openCursors int
}

// NewMockConnector creates a connector that serves the given rows
func NewMockConnector(rows ...[]interface{}) *MockConnector {
	return &MockConnector{Rows: rows}
}

// Connect implements Connector.Connect
func (m *MockConnector) Connect(ctx context.Context, cfg config.DatabaseConfig) (Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, "connect")
	if m.ConnectErr != nil {
		return nil, m.ConnectErr
	}

	m.openConns++
	return &mockConn{connector: m}, nil
}

// Events returns the recorded lifecycle events in order
func (m *MockConnector) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

// OpenConnections returns the number of connections not yet closed
func (m *MockConnector) OpenConnections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openConns
}

// OpenCursors returns the number of cursors not yet closed
func (m *MockConnector) OpenCursors() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openCursors
}

func (m *MockConnector) record(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

type mockConn struct {
	connector *MockConnector
}

func (c *mockConn) Query(ctx context.Context, query string) (Cursor, error) {
	m := c.connector
	m.record("query")

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}

	m.openCursors++
	return &mockCursor{connector: m, rows: m.Rows, types: m.ColumnTypes, pos: -1}, nil
}

func (c *mockConn) Close() error {
	m := c.connector
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, "close_conn")
	m.openConns--
	return m.ConnClose
}

type mockCursor struct {
	connector *MockConnector
	rows      [][]interface{}
	types     []string
	pos       int
}

func (c *mockCursor) Next() bool {
	if c.connector.IterErr != nil && c.pos+1 >= len(c.rows) {
		return false
	}
	c.pos++
	return c.pos < len(c.rows)
}

func (c *mockCursor) SliceScan() ([]interface{}, error) {
	if c.connector.ScanErr != nil {
		return nil, c.connector.ScanErr
	}
	return append([]interface{}(nil), c.rows[c.pos]...), nil
}

func (c *mockCursor) Err() error {
	return c.connector.IterErr
}

func (c *mockCursor) ColumnTypeNames() ([]string, error) {
	return append([]string(nil), c.types...), nil
}

func (c *mockCursor) Close() error {
	m := c.connector
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, "close_cursor")
	m.openCursors--
	return m.CursorClose
}
