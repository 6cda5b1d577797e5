package http

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Server represents an HTTP server
type Server struct {
	httpServer *http.Server
	handler    *Handler
	port       int
}

// NewServer creates a new HTTP server
func NewServer(handler *Handler, port int) *Server {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		port:       port,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve on port %d: %w", s.port, err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
