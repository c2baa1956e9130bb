// Package server exposes a FrameGraph over a gin admin HTTP API:
// structural edits, pose queries, a debug tree dump, and a geofence
// tracker built on top of pose queries.
package server

import (
	"time"

	"github.com/danmuck/framegraph/internal/auth"
	"github.com/danmuck/framegraph/internal/framegraph"
	"github.com/danmuck/framegraph/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Server owns the gin engine and everything it needs to serve the
// admin API for one FrameGraph.
type Server struct {
	graph     *framegraph.FrameGraph
	validator auth.Validator
	logger    zerolog.Logger
	geofence  *geofenceTracker
	router    *gin.Engine
	startedAt time.Time
}

// New builds a Server over graph, protecting mutating routes with
// validator (use auth.NoAuth{} to disable authentication).
func New(graph *framegraph.FrameGraph, validator auth.Validator, corsOrigins []string, logger zerolog.Logger) *Server {
	observability.RegisterMetrics()

	s := &Server{
		graph:     graph,
		validator: validator,
		logger:    logger,
		geofence:  newGeofenceTracker(),
		startedAt: time.Now(),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestID())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	s.router = r
	s.registerRoutes()
	return s
}

// Router returns the underlying gin engine, e.g. for use as an
// http.Handler or in tests via httptest.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// authMiddleware rejects requests whose bearer token fails
// validation. It is only attached to routes that mutate the graph;
// reads are open by design, matching an admin API meant to sit behind
// a private network boundary.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if err := s.validator.Validate(token); err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return header
}
