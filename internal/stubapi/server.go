// Package stubapi is an in-memory implementation of the GOMP REST API used
// by the client's tests and for local development without a real backend.
package stubapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// APIPrefix is the versioned base path every route is mounted under
const APIPrefix = "/api/v1"

// NewRouter builds the gin engine serving h under APIPrefix
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		router.Use(gin.Logger())
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:5000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	h.RegisterRoutes(router.Group(APIPrefix))
	return router
}

// Server represents the stub HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// NewServer creates a server for h listening on addr
func NewServer(h *Handler, addr string) *Server {
	router := NewRouter(h)
	return &Server{
		router: router,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.Printf("[StubAPI] listening on %s%s", s.http.Addr, APIPrefix)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
