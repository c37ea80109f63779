// Package web serves the browser surface of the prediction form.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/doeshing/irisform/internal/ports"
)

const shutdownTimeout = 5 * time.Second

// Server runs the browser surface until its context is canceled.
type Server struct {
	srv    *http.Server
	logger ports.Logger
}

// NewServer binds handler to addr.
func NewServer(addr string, handler http.Handler, logger ports.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("web server shutdown", err, nil)
		}
	}()
	if s.logger != nil {
		s.logger.Info("web server listening", map[string]interface{}{"addr": s.srv.Addr})
	}
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
