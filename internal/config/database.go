package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// DriverPostgres is the production driver (lib/pq)
	DriverPostgres = "postgres"
	// DriverSQLite is used for local development and tests (go-sqlite3)
	DriverSQLite = "sqlite3"
)

// DatabaseConfig holds the connection parameters for one invocation
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver" validate:"required,oneof=postgres sqlite3"`
	Host           string `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port           int    `mapstructure:"port" validate:"required_if=Driver postgres,gte=0,lte=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Driver postgres"`
	User           string `mapstructure:"user" validate:"required_if=Driver postgres"`
	Password       string `mapstructure:"password" validate:"required_if=Driver postgres"`
	SSLMode        string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	ConnectTimeout int    `mapstructure:"connect_timeout" validate:"gte=0"`
	Path           string `mapstructure:"path" validate:"required_if=Driver sqlite3"`
}

var validate = validator.New()

// Validate validates the database configuration
func (c *DatabaseConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			missing := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				missing = append(missing, fmt.Sprintf("%s (%s)", envKey(fe.StructField()), fe.Tag()))
			}
			return fmt.Errorf("invalid database configuration: %s", strings.Join(missing, ", "))
		}
		return fmt.Errorf("invalid database configuration: %w", err)
	}
	return nil
}

// envKey maps a struct field back to the environment variable that feeds it
func envKey(field string) string {
	switch field {
	case "SSLMode":
		return "DB_SSLMODE"
	case "ConnectTimeout":
		return "DB_CONNECT_TIMEOUT"
	default:
		return "DB_" + strings.ToUpper(field)
	}
}

// DSN returns the data source name for the configured driver
func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}

	parts := []string{
		"host=" + quoteDSNValue(c.Host),
		"port=" + strconv.Itoa(c.Port),
		"user=" + quoteDSNValue(c.User),
		"password=" + quoteDSNValue(c.Password),
		"dbname=" + quoteDSNValue(c.Name),
	}
	if c.SSLMode != "" {
		parts = append(parts, "sslmode="+c.SSLMode)
	}
	if c.ConnectTimeout > 0 {
		parts = append(parts, "connect_timeout="+strconv.Itoa(c.ConnectTimeout))
	}

	return strings.Join(parts, " ")
}

// Redacted returns the DSN with the password masked, for logging
func (c *DatabaseConfig) Redacted() string {
	masked := *c
	if masked.Password != "" {
		masked.Password = "xxxxx"
	}
	return masked.DSN()
}

// quoteDSNValue quotes a lib/pq key/value parameter when it is empty or
// contains whitespace, quotes or backslashes.
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n'\\") {
		return v
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
	return "'" + escaped + "'"
}

// EnsureDirectories creates the directory holding a SQLite database file
func (c *DatabaseConfig) EnsureDirectories() error {
	if c.Driver != DriverSQLite || c.Path == "" || c.Path == ":memory:" {
		return nil
	}

	dbDir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	return nil
}
