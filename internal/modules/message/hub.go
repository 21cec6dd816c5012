package message

import (
	"sync"

	"github.com/gorilla/websocket"
)

// wsClient serializes writes to a single websocket connection. gorilla
// permits at most one concurrent writer per connection, and SendToUser may
// be called from many request goroutines at once.
type wsClient struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *wsClient) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *wsClient) close() {
	if c.ws != nil {
		_ = c.ws.Close()
	}
}

// Hub tracks the live websocket connection of each signed-in user.
// A user gets at most one connection; a second login replaces and closes
// the previous one.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*wsClient
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*wsClient)}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[userID]; ok {
		old.close()
	}
	h.clients[userID] = &wsClient{ws: conn}
}

func (h *Hub) Unregister(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[userID]; ok {
		c.close()
		delete(h.clients, userID)
	}
}

// SendToUser pushes a JSON payload to the user's connection. It reports
// whether delivery happened; a failed write drops the connection so the
// client reconnects cleanly.
func (h *Hub) SendToUser(userID int64, payload interface{}) bool {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok || c.ws == nil {
		return false
	}
	if err := c.send(payload); err != nil {
		h.Unregister(userID)
		return false
	}
	return true
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close drops every connection; called on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
}
