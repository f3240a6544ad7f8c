package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"ecoreport-service/metrics"
	"ecoreport-service/models"

	"github.com/apex/log"
)

// Hub tracks connected listeners and fans accepted reports out to them.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound messages for all clients
	broadcast chan []byte

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mutex sync.RWMutex

	// Statistics
	lastBroadcastIndex int
	connectedClients   int
}

// NewHub creates a hub with no listeners attached.
func NewHub() *Hub {
	return &Hub{
		clients:            make(map[*Client]bool),
		broadcast:          make(chan []byte, 256),
		Register:           make(chan *Client),
		Unregister:         make(chan *Client),
		lastBroadcastIndex: -1,
	}
}

// Run starts the hub's main loop; call it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mutex.Lock()
			h.clients[client] = true
			h.connectedClients = len(h.clients)
			h.mutex.Unlock()
			metrics.ConnectedClients.Set(float64(h.connectedClients))
			log.Infof("Client connected. Total clients: %d", h.connectedClients)

		case client := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.connectedClients = len(h.clients)
			}
			h.mutex.Unlock()
			metrics.ConnectedClients.Set(float64(h.connectedClients))
			log.Infof("Client disconnected. Total clients: %d", h.connectedClients)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.connectedClients = len(h.clients)
			h.mutex.Unlock()
			metrics.ConnectedClients.Set(float64(h.connectedClients))
		}
	}
}

// BroadcastReport fans one accepted report out to every listener.
func (h *Hub) BroadcastReport(index int, report models.Report) {
	h.mutex.Lock()
	h.lastBroadcastIndex = index
	h.mutex.Unlock()

	message := models.BroadcastMessage{
		Type:      "report",
		Data:      models.ReportEvent{Index: index, Report: report},
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Errorf("Failed to marshal broadcast message: %v", err)
		return
	}

	h.broadcast <- data
	log.Infof("Broadcasted report %d to %d clients", index, h.connectedClients)
}

// GetStats returns the connected client count and the last broadcast index.
func (h *Hub) GetStats() (int, int) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.connectedClients, h.lastBroadcastIndex
}
