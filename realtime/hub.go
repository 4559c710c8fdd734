package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub tracks live WebSocket connections per user: userID → set of
// connections. Every tab a user has open joins the same room and receives
// every emission.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*websocket.Conn]bool
	log   *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*websocket.Conn]bool),
		log:   log,
	}
}

func (h *Hub) register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[userID][conn] = true
}

func (h *Hub) unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[userID]; ok {
		delete(room, conn)
		if len(room) == 0 {
			delete(h.rooms, userID)
		}
	}
}

// ConnectionCount returns how many connections a user currently has.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[userID])
}

// envelope is the wire format: {"event": "...", "data": {...}}.
type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// EmitToUser sends a named event to every connection in the user's room.
// No hub, no recipients or a dead connection is never an error for the
// caller; delivery is at-most-once, fire-and-forget.
func (h *Hub) EmitToUser(userID, event string, payload interface{}) {
	if h == nil {
		return
	}

	message, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		h.log.Errorf("Failed to marshal %s payload: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.rooms[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Debugf("Dropping dead connection for user %s: %v", userID, err)
			conn.Close()
			delete(h.rooms[userID], conn)
		}
	}
	if len(h.rooms[userID]) == 0 {
		delete(h.rooms, userID)
	}
}

// EmitToAll broadcasts a named event to every connected user.
func (h *Hub) EmitToAll(event string, payload interface{}) {
	if h == nil {
		return
	}

	h.mu.Lock()
	users := make([]string, 0, len(h.rooms))
	for userID := range h.rooms {
		users = append(users, userID)
	}
	h.mu.Unlock()

	for _, userID := range users {
		h.EmitToUser(userID, event, payload)
	}
}
