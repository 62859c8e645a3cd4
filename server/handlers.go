package server

// HTTP handlers:
// - WebSocket connections (HandleWebSocket)
// - Viewer page (HandleIndex)
// - Layout snapshot (HandleLayout)
// - Current frame as SVG (HandleFrame)
// - Health checks (HandleHealth)

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/version"
	"github.com/teranos/tagweb/view"
)

// HandleWebSocket upgrades the connection and starts the client pumps
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if ServerState(s.state.Load()) != ServerStateRunning {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("WebSocket upgrade failed", logger.FieldError, err)
		return
	}

	client := &Client{
		server: s,
		conn:   conn,
		send:   make(chan interface{}, MaxClientMessageQueueSize),
		id:     uuid.NewString(),
	}

	// Version goes out before the write pump starts to avoid concurrent writes
	info := version.Get()
	if err := conn.WriteJSON(&VersionMessage{
		Type:      "version",
		Version:   info.Label(),
		Commit:    info.Short(),
		BuildTime: info.BuildTime,
		ClientID:  client.id,
	}); err != nil {
		s.logger.Debugw("Failed to send version", logger.FieldClientID, client.id, logger.FieldError, err)
		conn.Close()
		return
	}

	select {
	case s.register <- client:
	case <-s.ctx.Done():
		conn.Close()
		return
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		client.writePump()
	}()
	go func() {
		defer s.wg.Done()
		client.readPump()
	}()
}

// HandleIndex serves the viewer page
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// HandleLayout returns node positions, links and view state as JSON
func (s *Server) HandleLayout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	var layout view.Layout
	if err := s.withScene(func(scene *view.Scene) { layout = scene.Layout() }); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if err := writeJSON(w, http.StatusOK, layout); err != nil {
		s.logger.Debugw("Failed to write layout", logger.FieldError, err)
	}
}

// HandleFrame renders the current frame as an SVG document
func (s *Server) HandleFrame(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	var frame *FrameMessage
	if err := s.withScene(func(scene *view.Scene) { frame = renderFrame(scene) }); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(frame.SVG))
}

// HandleHealth reports server state, counters and memory usage
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Metrics())
}
