package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/logger"
)

// State returns the current server state
func (s *Server) State() ServerState {
	return ServerState(s.state.Load())
}

// setState atomically updates the server state
func (s *Server) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("Server state changed", "new_state", newState.String())
}

// Start runs the client hub and the view engine. It does not listen; use
// ListenAndServe or mount Handler yourself.
func (s *Server) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run()
	}()

	s.engine.Start(s.ctx)
}

// ListenAndServe starts the server and blocks serving HTTP on port until
// Stop is called. A busy port falls back to the next free one; onReady
// receives the URL actually used.
func (s *Server) ListenAndServe(port int, onReady func(url string)) error {
	s.Start()

	actualPort, err := FindAvailablePort(port)
	if err != nil {
		return errors.Wrap(err, "failed to find available port")
	}
	if actualPort != port {
		s.logger.Infow("Port in use, using alternative",
			"requested_port", port,
			"actual_port", actualPort,
		)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", actualPort))
	if err != nil {
		return errors.Wrapf(err, "failed to listen on port %d", actualPort)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	url := fmt.Sprintf("http://localhost:%d", actualPort)
	s.logger.Infow("Server ready", logger.FieldAddress, url)
	if onReady != nil {
		onReady(url)
	}

	if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "HTTP server failed")
	}
	return nil
}

// Stop gracefully shuts down HTTP, clients and the engine
func (s *Server) Stop() error {
	if !s.state.CompareAndSwap(int32(ServerStateRunning), int32(ServerStateDraining)) {
		return nil
	}
	s.logger.Infow("Initiating server shutdown", "new_state", ServerStateDraining.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.mu.RLock()
	httpServer := s.httpServer
	s.mu.RUnlock()

	var shutdownErr error
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			shutdownErr = errors.Wrap(err, "HTTP shutdown failed")
		}
	}

	// Closing connections unblocks the read pumps. Hijacked WebSocket
	// connections are not tracked by http.Server.Shutdown.
	s.mu.Lock()
	for client := range s.clients {
		delete(s.clients, client)
		client.close()
		client.conn.Close()
	}
	s.mu.Unlock()

	s.engine.Stop()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Infow("All goroutines stopped cleanly")
	case <-shutdownCtx.Done():
		s.logger.Warnw("Goroutine shutdown timed out, forcing exit", "timeout", ShutdownTimeout)
	}

	s.setState(ServerStateStopped)
	s.logger.Infow("Server shutdown complete", "broadcast_drops", s.broadcastDrops.Load())
	return shutdownErr
}
