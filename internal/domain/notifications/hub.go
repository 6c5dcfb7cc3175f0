package notifications

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// SocketObserver is told when sockets open and close.
type SocketObserver interface {
	SocketOpened()
	SocketClosed()
}

type client struct {
	hub       *Hub
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

// Hub fans notifications out to the websocket connections of each console session.
type Hub struct {
	upgrader websocket.Upgrader
	observer SocketObserver

	mu      sync.Mutex
	clients map[string]map[*client]struct{}
}

// NewHub builds a hub. checkOrigin may be nil to accept same-origin requests only.
func NewHub(observer SocketObserver, checkOrigin func(*http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		observer: observer,
		clients:  map[string]map[*client]struct{}{},
	}
}

// Publish sends n to every socket of its session. Slow sockets are dropped.
func (h *Hub) Publish(n Notification) bool {
	payload, err := json.Marshal(n)
	if err != nil {
		slog.Warn("notification encode failed", "err", err)
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := false
	for c := range h.clients[n.SessionID] {
		select {
		case c.send <- payload:
			delivered = true
		default:
			h.removeLocked(c)
		}
	}
	return delivered
}

// Connected reports how many sockets the session has open.
func (h *Hub) Connected(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[sessionID])
}

// Disconnect closes every socket of the session, used on logout.
func (h *Hub) Disconnect(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[sessionID] {
		h.removeLocked(c)
	}
}

// Serve upgrades the request and attaches the socket to sessionID. The caller has
// already authenticated the session.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{hub: h, sessionID: sessionID, conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = map[*client]struct{}{}
	}
	h.clients[sessionID][c] = struct{}{}
	h.mu.Unlock()
	if h.observer != nil {
		h.observer.SocketOpened()
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(c *client) {
	set, ok := h.clients[c.sessionID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.sessionID)
	}
	close(c.send)
	if h.observer != nil {
		h.observer.SocketClosed()
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// readPump only exists to process pongs and notice the peer going away.
func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket closed unexpectedly", "session", c.sessionID, "err", err)
			}
			return
		}
	}
}
