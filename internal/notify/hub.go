package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait    = 10 * time.Second
	clientBuffer = 16
	pingPeriod   = 50 * time.Second
	pongWait     = 60 * time.Second
)

// Hub fans events out to the WebSocket connections of each user. A user may
// hold several connections (multiple tabs or devices); every one receives
// every event addressed to that user.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	log     *zap.Logger
}

// send stays open for the client's lifetime; done is closed exactly once,
// by remove, to signal teardown. Emit may hold a stale snapshot of a
// removed client, so it must never be handed a closed send channel.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// NewHub creates an empty Hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		log:     log,
	}
}

// Emit implements Emitter. Marshals the event once and queues it on every
// connection of the target user. Slow consumers are dropped rather than
// blocking the caller.
func (h *Hub) Emit(_ context.Context, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.log.Warn("dropping unmarshalable event", zap.String("event", e.Name), zap.Error(err))
		return
	}

	h.mu.RLock()
	conns := make([]*client, 0, len(h.clients[e.UserID]))
	for c := range h.clients[e.UserID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		select {
		case <-c.done:
			// Removed since the snapshot was taken.
		case c.send <- data:
		default:
			h.log.Warn("dropping slow websocket client", zap.String("user_id", e.UserID))
			h.remove(e.UserID, c)
		}
	}
}

// HandleConn registers the connection, pumps outgoing events to it, and
// blocks reading until the peer disconnects. Incoming messages are discarded;
// the socket is notification-only.
func (h *Hub) HandleConn(userID string, conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, clientBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(userID, c)
}

// ConnectionCount returns the number of open connections for a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) remove(userID string, c *client) {
	h.mu.Lock()
	if conns, ok := h.clients[userID]; ok {
		if _, present := conns[c]; present {
			delete(conns, c)
			close(c.done)
			if len(conns) == 0 {
				delete(h.clients, userID)
			}
		}
	}
	h.mu.Unlock()
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
