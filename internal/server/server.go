// Package server exposes the matchmaker over HTTP: the websocket endpoint
// clients connect to, plus health and stats probes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pairup/matchmaker/internal/config"
	"github.com/pairup/matchmaker/internal/matchmaking"
)

const shutdownTimeout = 10 * time.Second

// Server serves the matchmaker hub over HTTP.
type Server struct {
	cfg      *config.Server
	hub      *matchmaking.Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a Server for hub. The hub must be running.
func New(cfg *config.Server, hub *matchmaking.Hub, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		hub:    hub,
		logger: logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  readBufferSize,
		WriteBufferSize: writeBufferSize,
		Subprotocols:    matchmaking.Subprotocols,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// ListenAndServe binds cfg.Addr and serves until ctx is done, then shuts
// down gracefully. A bind failure is returned immediately.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("matchmaker listening",
			"addr", ln.Addr().String(),
			"allowed_origins", s.cfg.AllowedOrigins)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
