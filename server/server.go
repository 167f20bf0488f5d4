package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kbukum/kafkasample/logger"
	"github.com/kbukum/kafkasample/server/endpoint"
	"github.com/kbukum/kafkasample/server/middleware"
)

// Server is the gin-backed ops HTTP server.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server with request ids, request logging and panic recovery
// installed. No routes are registered yet.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log = log.WithComponent("server")
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.Recovery(log))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      engine,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
		},
		engine: engine,
		config: cfg,
		log:    log,
	}
}

// GinEngine returns the gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// RegisterOpsEndpoints registers /health, /liveness, /readiness, /info and
// /metrics.
func (s *Server) RegisterOpsEndpoints(serviceName string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/liveness", endpoint.Liveness(serviceName))
	s.engine.GET("/readiness", endpoint.Readiness(serviceName, checker))
	s.engine.GET("/info", endpoint.Info(serviceName))
	s.engine.GET("/metrics", endpoint.Metrics())
}

// Start binds the port and serves in a goroutine. It returns once the
// listener is bound.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr": ln.Addr().String(),
	})
	return nil
}

// Stop shuts the server down, waiting at most 5 seconds for open requests.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Listening reports whether Start bound the port.
func (s *Server) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener != nil
}
