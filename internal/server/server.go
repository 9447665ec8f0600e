package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/tablefork/backend/internal/logger"
)

// Server wraps the HTTP server around the gin router.
type Server struct {
	http *http.Server
	log  *logger.Logger
}

// New creates a new server instance
func New(router *gin.Engine, addr string, log *logger.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		log: log,
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
