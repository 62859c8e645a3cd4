package server

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/render/vector"
	"github.com/teranos/tagweb/view"
)

// Config configures the live view server
type Config struct {
	MaxFPS         float64  // Upper bound on frames pushed to clients per second
	AllowedOrigins []string // WebSocket/CORS origin prefixes; empty allows localhost only
}

// DefaultConfig returns 20 frames per second and localhost origins
func DefaultConfig() Config {
	return Config{
		MaxFPS: 20,
		AllowedOrigins: []string{
			"http://localhost",
			"https://localhost",
			"http://127.0.0.1",
			"https://127.0.0.1",
		},
	}
}

// Server streams frames of a running view engine to WebSocket clients and
// forwards their pointer and toolbar commands back to it
type Server struct {
	engine         *view.Engine
	allowedOrigins []string
	limiter        *rate.Limiter

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	lastFrame  *FrameMessage // Cached for newly connected clients

	logger     *zap.SugaredLogger
	httpServer *http.Server

	// Lifecycle management
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	broadcastDrops atomic.Int64
	framesSent     atomic.Int64
	state          atomic.Int32
	started        atomic.Bool
}

// New creates a server that owns an engine for scene. The server is the
// engine's presenter; call Start to run both.
func New(scene *view.Scene, engineCfg view.EngineConfig, cfg Config, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = logger.Logger
	}
	if cfg.MaxFPS <= 0 {
		cfg.MaxFPS = DefaultConfig().MaxFPS
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = DefaultConfig().AllowedOrigins
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		allowedOrigins: cfg.AllowedOrigins,
		limiter:        rate.NewLimiter(rate.Limit(cfg.MaxFPS), 1),
		clients:        make(map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		logger:         log.Named("server"),
		ctx:            ctx,
		cancel:         cancel,
	}
	s.state.Store(int32(ServerStateRunning))

	s.engine = view.NewEngine(scene, engineCfg, s, log)
	s.engine.OnTagSelect(s.handleTagSelect)
	return s
}

// Engine returns the engine behind the server, for snapshot and config reloads
func (s *Server) Engine() *view.Engine {
	return s.engine
}

// withScene runs fn on the engine goroutine. It fails with
// ErrServiceUnavailable once the engine has stopped.
func (s *Server) withScene(fn func(*view.Scene)) error {
	if err := s.engine.Do(fn); err != nil {
		return errors.Mark(errors.Wrap(err, "view engine unavailable"), ErrServiceUnavailable)
	}
	return nil
}

// Present renders the scene and pushes it to every client. It runs on the
// engine goroutine after each step and interaction.
func (s *Server) Present(scene *view.Scene) {
	s.mu.RLock()
	hasClients := len(s.clients) > 0
	s.mu.RUnlock()
	if !hasClients {
		return
	}

	// Skipped frames are not lost: the next tick presents again
	if !s.limiter.Allow() {
		return
	}

	frame := renderFrame(scene)
	s.mu.Lock()
	s.lastFrame = frame
	s.mu.Unlock()

	s.broadcastMessage(frame)
	s.framesSent.Add(1)
}

// renderFrame draws scene as an SVG document
func renderFrame(scene *view.Scene) *FrameMessage {
	var buf bytes.Buffer
	bounds := scene.Bounds()
	canvas := vector.New(&buf, int(bounds.Width), int(bounds.Height))
	scene.Render(canvas)
	canvas.Close()

	return &FrameMessage{
		Type:       "frame",
		SVG:        buf.String(),
		Steps:      scene.Steps(),
		Generation: scene.Generation(),
	}
}

// handleTagSelect tells every client about canvas selections
func (s *Server) handleTagSelect(tag *graph.Tag) {
	if tag != nil {
		s.logger.Debugw("Tag selected", logger.FieldTagID, tag.ID)
	} else {
		s.logger.Debugw("Selection cleared")
	}
	s.broadcastMessage(&SelectMessage{Type: "select", Tag: tag})
}

// broadcastMessage queues msg for every client without blocking.
// Returns the number of clients that accepted it.
func (s *Server) broadcastMessage(msg interface{}) int {
	// Held for the whole loop so unregister cannot close a channel mid-send
	s.mu.RLock()
	defer s.mu.RUnlock()

	sent := 0
	for client := range s.clients {
		select {
		case client.send <- msg:
			sent++
		default:
			s.broadcastDrops.Add(1)
		}
	}
	return sent
}

// handleClientRegister adds a client and sends it the latest frame
func (s *Server) handleClientRegister(client *Client) {
	s.mu.Lock()
	if len(s.clients) >= MaxClients {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			logger.FieldClientID, client.id,
			"max_clients", MaxClients,
		)
		client.close()
		return
	}

	s.clients[client] = true
	total := len(s.clients)
	if s.lastFrame != nil {
		select {
		case client.send <- s.lastFrame:
		default:
		}
	}
	s.mu.Unlock()

	s.logger.Infow("Client connected",
		logger.FieldClientID, client.id,
		"total_clients", total,
	)
}

// handleClientUnregister removes a client and closes its queue
func (s *Server) handleClientUnregister(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.clients, client)
	total := len(s.clients)
	client.close()
	s.mu.Unlock()

	s.logger.Infow("Client disconnected",
		logger.FieldClientID, client.id,
		"total_clients", total,
	)
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// run is the hub event loop
func (s *Server) run() {
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Server hub stopping due to context cancellation")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		}
	}
}
