package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/storefront/internal/config"
)

const (
	serviceName = "storefront"
	version     = "0.1.0"
)

// HealthChecker reports whether the backing database is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Server struct {
	router *gin.Engine
	db     HealthChecker
}

// NewServer creates a new server instance
func NewServer(db HealthChecker, cfg *config.ServerConfig) *Server {
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	server := &Server{
		router: router,
		db:     db,
	}

	server.setupRoutes()
	return server
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.root)

	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
	}
}

func (s *Server) root(c *gin.Context) {
	c.String(http.StatusOK, "API is running...")
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	// Check database health
	if err := s.db.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": serviceName,
		"version": version,
	})
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
