package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod is the interval between pings; must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum size in bytes allowed for a client message.
	maxMessageSize = 512

	// sendBufferSize is the per-client buffered event queue. A client that
	// falls this far behind is dropped.
	sendBufferSize = 64
)

// Client represents one active WebSocket session. It is the opaque
// connection handle tracked by the Hub and Registry; identity is pointer
// identity. A Client is not persisted and lives only for the duration of the
// session.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Event
}

// newClient creates a client for an accepted connection.
func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan Event, sendBufferSize),
	}
}

// trySend queues an event for delivery without blocking.
// Returns false if the client's buffer is full.
func (c *Client) trySend(event Event) bool {
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// readPump reads messages from the connection until it drops. A register
// message binds this connection to the carried user ID. The transport's
// disconnect signal (any read error) removes the client from the hub, which
// in turn unregisters it.
func (c *Client) readPump(registry *Registry, log *slog.Logger) {
	defer func() {
		c.hub.Remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("websocket closed unexpectedly", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug("ignoring malformed client message", "error", err)
			continue
		}

		switch msg.Type {
		case MessageRegister:
			userID, err := uuid.Parse(msg.UserID)
			if err != nil {
				log.Debug("ignoring register message with invalid user ID",
					"user_id", msg.UserID)
				continue
			}
			registry.Register(userID, c)
			log.Debug("connection registered", "user_id", userID)
		default:
			log.Debug("ignoring unknown client message type", "type", msg.Type)
		}
	}
}

// writePump drains the client's send channel onto the connection, keeping
// the connection alive with periodic pings. It exits when the send channel
// is closed by the hub or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// WSHandler upgrades HTTP requests to WebSocket connections and wires the
// resulting clients into the hub and registry.
type WSHandler struct {
	hub      *Hub
	registry *Registry
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWSHandler creates a WSHandler. allowedOrigin restricts browser
// connections to that origin; empty permits same-origin requests only per
// the gorilla default check.
func NewWSHandler(hub *Hub, registry *Registry, allowedOrigin string, log *slog.Logger) *WSHandler {
	if log == nil {
		log = slog.Default()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if allowedOrigin != "" {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return r.Header.Get("Origin") == allowedOrigin
		}
	}

	return &WSHandler{
		hub:      hub,
		registry: registry,
		upgrader: upgrader,
		logger:   log.With(slog.String("component", "ws_handler")),
	}
}

// ServeHTTP implements http.Handler. It upgrades the connection, starts the
// client's read and write pumps, and returns.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(h.hub, conn)
	h.hub.Add(client)

	go client.writePump()
	go client.readPump(h.registry, log)
}
