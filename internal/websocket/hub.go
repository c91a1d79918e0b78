package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains active WebSocket connections and broadcasts schedule
// events (assignment commits, plan applications) to dispatchers and the
// affected drivers.
type Hub struct {
	// Registered clients (userID -> Client)
	clients map[string]*Client

	// Inbound messages to broadcast to a specific user
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex
}

// Message represents a message to broadcast to a specific user
type Message struct {
	UserID string
	Data   interface{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Client connected: %s (%s)", client.UserID, client.UserRole)

		case client := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.clients[client.UserID]; ok && existing == client {
				delete(h.clients, client.UserID)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("👋 [WEBSOCKET] Client disconnected: %s", client.UserID)

		case message := <-h.broadcast:
			h.sendToUser(message.UserID, message.Data)
		}
	}
}

// SendToUser queues a message for one connected user; silently dropped if
// the user is not connected.
func (h *Hub) SendToUser(userID string, data interface{}) {
	h.broadcast <- &Message{UserID: userID, Data: data}
}

// BroadcastToRole sends a message to every connected client with the role
func (h *Hub) BroadcastToRole(role string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ [WEBSOCKET] Failed to marshal broadcast: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.UserRole != role {
			continue
		}
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop rather than block the hub
		}
	}
}

func (h *Hub) sendToUser(userID string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ [WEBSOCKET] Failed to marshal message: %v", err)
		return
	}

	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.send <- payload:
	default:
	}
}
