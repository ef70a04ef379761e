package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"users-function/internal/repositories"
	"users-function/internal/services"
	"users-function/pkg/lambda"

	"github.com/sirupsen/logrus"
)

// UserHandler serves the users listing. It never returns an error to the
// runtime: every failure becomes a 500 response.
type UserHandler struct {
	userService services.UserService
	logger      *logrus.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService services.UserService, logger *logrus.Logger) *UserHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Handle lists every user as a JSON array. The event is logged but not
// otherwise interpreted.
func (h *UserHandler) Handle(ctx context.Context, req *lambda.Request) *lambda.Response {
	log := h.logger.WithFields(logrus.Fields{
		"request_id": req.ID,
		"method":     req.Method,
		"path":       req.Path,
	})
	log.WithField("event_size", len(req.Raw)).Info("Received event")
	log.WithField("event", string(req.Raw)).Debug("Event payload")

	users, err := h.userService.ListUsers(ctx)
	if err != nil {
		return h.errorResponse(log, err)
	}

	body, err := json.Marshal(users)
	if err != nil {
		return h.errorResponse(log, repositories.SerializationError(err))
	}

	log.WithField("count", len(users)).Info("Request completed")
	return jsonResponse(http.StatusOK, string(body))
}

func (h *UserHandler) errorResponse(log *logrus.Entry, err error) *lambda.Response {
	log.WithError(err).WithField("kind", errorKind(err)).Error("Failed to list users")

	body, _ := json.Marshal(ErrorResponse{Error: err.Error()})
	return jsonResponse(http.StatusInternalServerError, string(body))
}

func jsonResponse(status int, body string) *lambda.Response {
	return &lambda.Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}
