package hub

import (
	"encoding/json"
	"sync"

	"chronicles/backend/internal/logger"
)

// EventPostCreated announces a new post to the author's followers.
const EventPostCreated = "post_created"

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is one open stream. The SSE handler drains it until it is closed.
type Client chan []byte

// Hub tracks the open streams of every connected user.
type Hub struct {
	users map[uint]map[Client]bool
	mu    sync.RWMutex
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		users: make(map[uint]map[Client]bool),
	}
}

// Subscribe opens a stream for userID with room for buffer pending events.
func (h *Hub) Subscribe(userID uint, buffer int) Client {
	client := make(Client, buffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]bool)
	}
	h.users[userID][client] = true
	return client
}

// Unsubscribe removes and closes a stream.
func (h *Hub) Unsubscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.users, userID)
			}
		}
	}
}

// Connected reports how many streams userID has open.
func (h *Hub) Connected(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Publish sends an event to every stream of the given users. Slow streams miss it.
func (h *Hub) Publish(userIDs []uint, event Event) {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		logger.Log.WithError(err).WithField("type", event.Type).Error("failed to encode hub event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range userIDs {
		for client := range h.users[id] {
			select {
			case client <- messageBytes:
			default:
			}
		}
	}
}
