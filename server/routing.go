package server

import (
	"net/http"

	"github.com/teranos/tagweb/version"
)

// Handler returns the HTTP routes. Each server gets its own mux so several
// can coexist in one process.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.corsMiddleware(s.HandleWebSocket))
	mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))
	mux.HandleFunc("/api/layout", s.corsMiddleware(s.HandleLayout))
	mux.HandleFunc("/api/frame.svg", s.corsMiddleware(s.HandleFrame))
	mux.HandleFunc("/", s.corsMiddleware(s.HandleIndex))
	return mux
}

// corsMiddleware adds CORS headers for allowed origins and answers preflight
// requests
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", version.Get().ServerHeader())

		origin := r.Header.Get("Origin")
		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}
