package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/interact"
	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/view"
)

// Client represents a WebSocket client connection
type Client struct {
	server    *Server
	conn      *websocket.Conn
	send      chan interface{}
	id        string
	closeOnce sync.Once // Prevents double-close panics
}

// readPump handles reading messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.server.logger.Warnw("JSON unmarshal error",
				logger.FieldError, err.Error(),
				logger.FieldClientID, c.id,
			)
			continue
		}

		if err := c.routeMessage(&msg); err != nil {
			c.server.logger.Debugw("Rejected client message",
				"type", msg.Type,
				logger.FieldClientID, c.id,
				logger.FieldError, err,
			)
			c.sendJSON(newErrorMessage(err))
		}
	}
}

// handleReadError logs unexpected WebSocket read errors.
// Expected closure codes are ignored.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseNormalClosure,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
	) {
		c.server.logger.Warnw("WebSocket read error",
			logger.FieldClientID, c.id,
			logger.FieldError, err,
		)
	}
}

// routeMessage forwards a client command to the engine
func (c *Client) routeMessage(msg *ClientMessage) error {
	engine := c.server.engine
	switch msg.Type {
	case "pointer":
		return c.handlePointer(msg)
	case "zoom_in":
		engine.ZoomIn()
	case "zoom_out":
		engine.ZoomOut()
	case "reset":
		engine.Reset()
	case "filter":
		return c.handleFilter(msg)
	case "select":
		engine.SelectTag(msg.TagID)
	case "resize":
		if msg.Width <= 0 || msg.Height <= 0 {
			return NewInvalidRequestError("resize needs a positive size, got %gx%g", msg.Width, msg.Height)
		}
		engine.Resize(msg.Width, msg.Height)
	case "ping":
		// Keepalive only
	default:
		return NewInvalidRequestError("unknown message type %q", msg.Type)
	}
	return nil
}

func (c *Client) handlePointer(msg *ClientMessage) error {
	kind := interact.EventKind(msg.Kind)
	switch kind {
	case interact.PointerDown, interact.PointerMove, interact.PointerUp, interact.PointerLeave:
	default:
		return NewInvalidRequestError("unknown pointer kind %q", msg.Kind)
	}
	c.server.engine.HandlePointer(interact.PointerEvent{Kind: kind, X: msg.X, Y: msg.Y})
	return nil
}

// handleFilter merges the message into the current filter. The read goes
// through the engine so concurrent clients see a consistent base.
func (c *Client) handleFilter(msg *ClientMessage) error {
	var current graph.FilterState
	if err := c.server.withScene(func(s *view.Scene) { current = s.Filter() }); err != nil {
		return err
	}

	next := current
	if msg.Threshold != nil {
		next.StrengthThreshold = *msg.Threshold
	}
	if msg.RelationType != "" {
		rt, ok := graph.ParseRelationType(msg.RelationType, true)
		if !ok {
			return errors.WithHintf(
				NewInvalidRequestError("unknown relation type %q", msg.RelationType),
				"use \"all\" or one of %v", graph.RelationTypes())
		}
		next.RelationType = rt
	}
	if err := next.Validate(); err != nil {
		return WrapInvalidRequest(err, "filter rejected")
	}
	if next == current {
		return nil
	}

	c.server.logger.Infow("Filter changed",
		logger.FieldClientID, c.id,
		logger.FieldThreshold, next.StrengthThreshold,
		logger.FieldRelation, next.RelationType,
	)
	c.server.engine.SetFilter(next)
	return nil
}

// writePump writes queued messages and keepalive pings to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.server.ctx.Done():
			return

		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.server.logger.Debugw("Message write error",
					logger.FieldClientID, c.id,
					logger.FieldError, err,
				)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendJSON queues a message for this client only
func (c *Client) sendJSON(msg interface{}) {
	c.server.mu.RLock()
	defer c.server.mu.RUnlock()
	if !c.server.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		c.server.logger.Warnw("Client send channel full, dropping message", logger.FieldClientID, c.id)
	}
}

// close closes the send queue once. The client must already be out of
// the clients map so no broadcast can target it.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func newErrorMessage(err error) *ErrorMessage {
	msg := &ErrorMessage{Type: "error", Error: err.Error()}
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		msg.Hint = hints[0]
	}
	return msg
}
