package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"users-function/internal/config"
	"users-function/internal/handlers"
	"users-function/internal/middleware"
	"users-function/internal/services"
	"users-function/pkg/lambda"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server exposes the users function over HTTP for local development
type Server struct {
	config      *config.Config
	userService services.UserService
	userHandler *handlers.UserHandler
	logger      *logrus.Logger
	router      *gin.Engine
}

// New creates a server and registers its routes
func New(cfg *config.Config, userService services.UserService, userHandler *handlers.UserHandler, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:      cfg,
		userService: userService,
		userHandler: userHandler,
		logger:      logger,
		router:      gin.New(),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.StructuredLogger(logger))
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.SecurityHeaders())

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.GET("/health", s.health)

	v1 := s.router.Group("/api/v1")
	v1.Use(middleware.RateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger))
	{
		v1.GET("/users", s.listUsers)
	}

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured port until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("port", s.config.Port).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	s.logger.Info("Server exited")
	return nil
}

// health godoc
// @Summary Check database health
// @Description Connects with the configured parameters and runs a check query
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (s *Server) health(c *gin.Context) {
	if err := s.userService.CheckHealth(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	runtime := config.GetServerlessConfig()
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"timestamp":     time.Now().UTC(),
		"mode":          config.GetDeploymentMode(),
		"function_name": runtime.FunctionName,
		"region":        runtime.Region,
		"stage":         runtime.Stage,
	})
}

// listUsers replays the HTTP request as an API Gateway event so the handler
// sees exactly what it would see in Lambda
// @Summary List users
// @Description Returns every row of the users table in the order the database yields them
// @Tags users
// @Produce json
// @Success 200 {array} models.UserRecord
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 429 {object} middleware.ErrorResponse
// @Failure 500 {object} handlers.ErrorResponse
// @Router /users [get]
func (s *Server) listUsers(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"path":       c.Request.URL.Path,
		}).WithError(err).Warn("Failed to read request body")

		c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorResponse{
			Error:     "failed to read request body: " + err.Error(),
			RequestID: c.GetString(middleware.RequestIDKey),
		})
		return
	}

	event := events.APIGatewayProxyRequest{
		HTTPMethod:            c.Request.Method,
		Path:                  c.Request.URL.Path,
		Headers:               flatten(c.Request.Header),
		QueryStringParameters: flatten(c.Request.URL.Query()),
		Body:                  string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: c.GetString(middleware.RequestIDKey),
		},
	}

	req := lambda.FromAPIGateway(c.Request.Context(), event)
	req.ID = c.GetString(middleware.RequestIDKey)

	resp := s.userHandler.Handle(c.Request.Context(), req)
	writeResponse(c, resp)
}

func writeResponse(c *gin.Context, resp *lambda.Response) {
	contentType := "application/json"
	for k, v := range resp.Headers {
		if strings.EqualFold(k, "Content-Type") {
			contentType = v
			continue
		}
		c.Header(k, v)
	}
	c.Data(resp.StatusCode, contentType, []byte(resp.Body))
}

func flatten(values map[string][]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	flat := make(map[string]string, len(values))
	for k, v := range values {
		flat[k] = strings.Join(v, ",")
	}
	return flat
}
