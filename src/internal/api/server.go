package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

// Server is the HTTP trigger API server.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a server for handler on listen.
// Write timeout covers a full registration run over several interfaces.
func NewServer(listen string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         listen,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	serverErrors := make(chan error, 1)
	go func() {
		log.Infof("API server listening on http://%s", listener.Addr())
		serverErrors <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		log.Infof("Shutting down API server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			_ = s.httpServer.Close()
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		log.Infof("API server stopped")
		return nil
	}
}
