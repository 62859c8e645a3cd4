package server

import (
	"time"

	"github.com/teranos/tagweb/graph"
)

const (
	// MaxClients is the maximum number of concurrent WebSocket clients
	MaxClients = 100
	// MaxClientMessageQueueSize is the size of per-client message queues
	MaxClientMessageQueueSize = 64
	// ShutdownTimeout is how long Stop waits for connections and goroutines
	ShutdownTimeout = 10 * time.Second
)

// WebSocket timeouts, following the gorilla chat example
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer. Client messages are small commands.
	maxMessageSize = 64 * 1024
)

// ServerState represents the server lifecycle state
type ServerState int32

const (
	ServerStateRunning  ServerState = iota // Normal operation
	ServerStateDraining                    // Graceful shutdown in progress
	ServerStateStopped                     // Shutdown complete
)

func (s ServerState) String() string {
	switch s {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ClientMessage is a command from the browser
type ClientMessage struct {
	Type         string   `json:"type"`                    // "pointer", "zoom_in", "zoom_out", "reset", "filter", "select", "resize", "ping"
	Kind         string   `json:"kind,omitempty"`          // pointer: "down", "move", "up", "leave"
	X            float64  `json:"x,omitempty"`             // pointer: canvas coordinates
	Y            float64  `json:"y,omitempty"`             // pointer: canvas coordinates
	Threshold    *float64 `json:"threshold,omitempty"`     // filter: minimum strength, nil keeps the current value
	RelationType string   `json:"relation_type,omitempty"` // filter: "all" or a relation type, empty keeps the current value
	TagID        string   `json:"tag_id,omitempty"`        // select: tag to select, empty clears
	Width        float64  `json:"width,omitempty"`         // resize
	Height       float64  `json:"height,omitempty"`        // resize
}

// FrameMessage carries one rendered frame
type FrameMessage struct {
	Type       string `json:"type"` // "frame"
	SVG        string `json:"svg"`
	Steps      int64  `json:"steps"`
	Generation uint64 `json:"generation"`
}

// SelectMessage reports a selection change made on the canvas
type SelectMessage struct {
	Type string     `json:"type"` // "select"
	Tag  *graph.Tag `json:"tag"`  // nil when the selection was cleared
}

// VersionMessage is sent once when a client connects
type VersionMessage struct {
	Type      string `json:"type"` // "version"
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	ClientID  string `json:"client_id"`
}

// ErrorMessage reports a rejected client command
type ErrorMessage struct {
	Type  string `json:"type"` // "error"
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}
