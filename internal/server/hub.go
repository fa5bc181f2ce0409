package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pingInterval  = 30 * time.Second
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	sendBuffer    = 64
)

var upgrader = websocket.Upgrader{
	// The server only listens on loopback by default.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans engine events out to websocket clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*wsClient
	logger  *slog.Logger
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*wsClient),
		logger:  logger,
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to every client. Slow clients drop messages.
func (h *Hub) Broadcast(msg EventMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("event encode failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("dropping event for slow client", "client", c.id)
		}
	}
}

// Serve upgrades the request and registers the connection. first is sent
// to the new client before any broadcast.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, first EventMessage) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  h,
	}
	if data, err := json.Marshal(first); err == nil {
		c.send <- data
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "client", c.id)

	go c.writePump()
	go c.readPump()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		close(c.send)
		delete(h.clients, c.id)
		h.logger.Debug("websocket client disconnected", "client", c.id)
	}
}

// readPump only consumes control frames; clients send commands over HTTP.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read error", "client", c.id, "error", err)
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
