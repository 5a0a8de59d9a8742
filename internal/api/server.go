// Package api provides the HTTP boundary around the assessment service:
// routing, request deserialization and range validation, and error-to-status
// mapping. The engine below it never sees an invalid record.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/health-advisor-server/internal/domain"
	"github.com/health-advisor-server/internal/middleware"
	"github.com/health-advisor-server/internal/service"
)

// Version is reported by the info and health endpoints.
const Version = "1.0.0"

// Server represents the HTTP server
type Server struct {
	config     *domain.Config
	logger     *logrus.Logger
	assessment *service.AssessmentService
	router     *gin.Engine
	server     *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *domain.Config, logger *logrus.Logger, assessment *service.AssessmentService) *Server {
	// Set Gin mode based on log level
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(recoveryHandler(logger)))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.NewRateLimiter(&cfg.RateLimit, logger).Handler())

	server := &Server{
		config:     cfg,
		logger:     logger,
		assessment: assessment,
		router:     router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// recoveryHandler converts a handler panic into a structured 500 response
// instead of gin's default plain-text body.
func recoveryHandler(logger *logrus.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered interface{}) {
		logger.WithFields(logrus.Fields{
			"panic":          recovered,
			"correlation_id": c.GetString("correlation_id"),
		}).Error("Request handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, domain.NewAPIError(
			domain.ErrInternalServer,
			"An internal error occurred",
			"",
			c.GetString("correlation_id"),
		))
	}
}

// Router exposes the gin engine, primarily for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until ctx is cancelled, then
// drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/assess-risk", s.handleAssessRisk)
		v1.POST("/health-advice", s.handleHealthAdvice)
	}
}
