package repositories

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure surfaced by the users function wraps exactly one
// of these so callers can tell them apart even though the HTTP contract
// collapses them into a single 500 response.
var (
	// ErrConfiguration is returned when connection parameters are missing or malformed
	ErrConfiguration = errors.New("configuration error")

	// ErrConnection is returned when the database cannot be reached or rejects the login
	ErrConnection = errors.New("database connection error")

	// ErrQuery is returned when executing the statement or fetching rows fails
	ErrQuery = errors.New("query error")

	// ErrSchema is returned when a row does not have the expected shape
	ErrSchema = errors.New("schema mismatch")

	// ErrSerialization is returned when the records cannot be encoded
	ErrSerialization = errors.New("serialization error")
)

// OperationError is a failure of one step of an invocation
type OperationError struct {
	Op   string // Step that failed: configure, connect, query, fetch, encode
	Kind error  // One of the Err* kinds above
	Err  error  // Underlying error
}

// Error implements the error interface. Only the underlying message is
// reported; it is what ends up in the response body.
func (e *OperationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Kind)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's kind. errors.Is still walks Err
// through Unwrap, so driver sentinels remain matchable.
func (e *OperationError) Is(target error) bool {
	return target == e.Kind
}

// NewOperationError creates a new operation error
func NewOperationError(op string, kind, err error) *OperationError {
	return &OperationError{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// ConfigurationError creates a "configuration" error
func ConfigurationError(err error) *OperationError {
	return NewOperationError("configure", ErrConfiguration, err)
}

// ConnectionError creates a "connection" error
func ConnectionError(err error) *OperationError {
	return NewOperationError("connect", ErrConnection, err)
}

// QueryError creates a "query" error for the given step (query or fetch)
func QueryError(op string, err error) *OperationError {
	return NewOperationError(op, ErrQuery, err)
}

// SchemaError creates a "schema mismatch" error
func SchemaError(err error) *OperationError {
	return NewOperationError("map", ErrSchema, err)
}

// SerializationError creates a "serialization" error
func SerializationError(err error) *OperationError {
	return NewOperationError("encode", ErrSerialization, err)
}

// KindOf returns the kind of err, or nil if err is not an OperationError
func KindOf(err error) error {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return nil
}

// IsConfiguration checks if an error is a "configuration" error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsConnection checks if an error is a "connection" error
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsQuery checks if an error is a "query" error
func IsQuery(err error) bool {
	return errors.Is(err, ErrQuery)
}

// IsSchema checks if an error is a "schema mismatch" error
func IsSchema(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsSerialization checks if an error is a "serialization" error
func IsSerialization(err error) bool {
	return errors.Is(err, ErrSerialization)
}
