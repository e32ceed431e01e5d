package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/olla-del-barrio/dish-sync/internal/api/middleware"
	"github.com/olla-del-barrio/dish-sync/internal/api/rest"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ServiceToken string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	controller rest.SyncController
	dishes     rest.DishReader
	httpServer *http.Server
}

// New creates a new API server. dishes may be nil when no database is configured.
func New(cfg Config, controller rest.SyncController, dishes rest.DishReader) *Server {
	s := &Server{
		config:     cfg,
		controller: controller,
		dishes:     dishes,
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Router builds the gin engine with middleware and routes
func (s *Server) Router() *gin.Engine {
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	rest.SetupRoutes(router, rest.NewHandler(s.controller, s.dishes), s.config.ServiceToken)
	return router
}

// Start starts the HTTP server. It blocks until Shutdown.
func (s *Server) Start() error {
	logger.Info("Starting API server",
		zap.String("address", s.httpServer.Addr),
		zap.Bool("auth", s.config.ServiceToken != ""),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server. A server shut down before Start never serves.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
