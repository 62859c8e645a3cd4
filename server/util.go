package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/teranos/tagweb/errors"
)

// upgrader creates a WebSocket upgrader that checks origins against the
// server's allowed list
func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 8192, // Frames are whole SVG documents
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin validates the Origin header against the allowed origins.
// Prefix matching allows any port number.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Allow requests with no origin header (e.g., direct WebSocket clients, testing)
	if origin == "" {
		return true
	}

	for _, allowed := range s.allowedOrigins {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}

// isPortAvailable checks if a port is available for binding
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = listener.Close() // Best-effort check, the real bind may still race
	return true
}

// FindAvailablePort returns requestedPort if free, else the first free port
// among the next ten
func FindAvailablePort(requestedPort int) (int, error) {
	for i := 0; i <= 10; i++ {
		if isPortAvailable(requestedPort + i) {
			return requestedPort + i, nil
		}
	}
	return 0, errors.WithHint(
		errors.Newf("no available ports found (tried %d-%d)", requestedPort, requestedPort+10),
		"pass --port or set server.port in am.toml")
}
