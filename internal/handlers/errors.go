package handlers

import (
	"users-function/internal/repositories"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// errorKind names the failure class for logs
func errorKind(err error) string {
	switch {
	case repositories.IsConfiguration(err):
		return "configuration"
	case repositories.IsConnection(err):
		return "connection"
	case repositories.IsQuery(err):
		return "query"
	case repositories.IsSchema(err):
		return "schema"
	case repositories.IsSerialization(err):
		return "serialization"
	default:
		return "unknown"
	}
}
