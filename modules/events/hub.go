package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/AppleLamps/free-photo-or/modules/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Dev default - allow every origin. Tighten for production domains.
		return true
	},
}

// Hub pushes gallery store events to every connected browser client, so a
// second tab (or a reconnecting one) stays in sync without polling.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type wireEvent struct {
	Type   string             `json:"type"`
	Record *store.ImageRecord `json:"record,omitempty"`
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Bind subscribes the hub to a store and returns the unsubscribe function.
func (h *Hub) Bind(s *store.Store) func() {
	return s.Subscribe(func(event store.Event) {
		h.broadcast(wireEvent{Type: string(event.Type), Record: event.Record})
	})
}

// HandleWebSocket upgrades the connection and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Events] WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 64)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	log.Printf("👤 [Events] Client connected (total: %d)", count)

	go c.writePump()
	go h.readPump(c)
}

// ClientCount reports the connected clients, for the health endpoint.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(event wireEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ [Events] Failed to marshal event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow client - drop it rather than blocking the gallery.
			close(c.send)
			delete(h.clients, c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
	count := len(h.clients)
	h.mu.Unlock()

	log.Printf("👋 [Events] Client disconnected (remaining: %d)", count)
}

// readPump discards inbound frames; the event stream is one-way. It exists
// to detect disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ [Events] WebSocket error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
