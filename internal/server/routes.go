package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/pairup/matchmaker/internal/matchmaking"
)

const (
	readBufferSize  = 4 * 1024
	writeBufferSize = 4 * 1024
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthCheckHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

// Health Check endpoint
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Matchmaker is healthy."))
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.hub.Stats(r.Context())
	if err != nil {
		s.logger.Warn("stats unavailable", "error", err)
		http.Error(w, "matchmaker unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		s.logger.Debug("writing stats response", "error", err)
	}
}

// serveWs upgrades the request to a websocket and hands the connection to
// the hub.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", "remote", r.RemoteAddr, "error", err)
		return
	}

	codec := matchmaking.CodecFor(conn.Subprotocol())
	client := matchmaking.NewClient(s.hub, conn, codec, s.cfg.SendBuffer)
	if !s.hub.Register(client) {
		conn.Close()
		return
	}

	s.logger.Debug("connection opened",
		"conn_id", client.ID,
		"remote", r.RemoteAddr,
		"codec", codec.Name())

	// The pumps own the connection from here on
	go client.WritePump()
	go client.ReadPump()
}

// checkOrigin admits non-browser clients (no Origin header) and browsers
// whose origin is listed. A "*" entry admits everyone.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return lo.ContainsBy(s.cfg.AllowedOrigins, func(allowed string) bool {
		return allowed == "*" || strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin)
	})
}
