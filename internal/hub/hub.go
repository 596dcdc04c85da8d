package hub

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Stattrackrr/stattrackr/internal/client"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

const broadcastBufferSize = 1000

// Hub maintains the set of active clients and broadcasts board updates to them
type Hub struct {
	clients    map[*client.Client]bool
	clientsMu  sync.RWMutex
	register   chan *client.Client
	unregister chan *client.Client
	broadcast  chan models.BoardUpdate

	totalConnections int64
	messagesSent     int64
	messagesDropped  int64
	metricsMu        sync.Mutex
}

// New creates a new hub instance
func New() *Hub {
	return &Hub{
		clients:    make(map[*client.Client]bool),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		broadcast:  make(chan models.BoardUpdate, broadcastBufferSize),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	metricsTicker := time.NewTicker(30 * time.Second)
	defer metricsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.addClient(c)

		case c := <-h.unregister:
			h.removeClient(c)

		case update := <-h.broadcast:
			h.broadcastUpdate(update)

		case <-metricsTicker.C:
			h.reportMetrics()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *client.Client) {
	h.register <- c
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	h.unregister <- c
}

// Broadcast queues a board update for delivery to matching clients.
// Drops the update when the broadcast buffer is full.
func (h *Hub) Broadcast(update models.BoardUpdate) {
	select {
	case h.broadcast <- update:
	default:
		h.metricsMu.Lock()
		h.messagesDropped++
		h.metricsMu.Unlock()
		log.Warn().Str("market", string(update.Market)).Msg("broadcast buffer full, update dropped")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]int64 {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()

	return map[string]int64{
		"total_connections": h.totalConnections,
		"active_clients":    int64(h.GetClientCount()),
		"messages_sent":     h.messagesSent,
		"messages_dropped":  h.messagesDropped,
	}
}

func (h *Hub) addClient(c *client.Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.clientsMu.Unlock()

	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	log.Info().Str("client_id", c.ID).Int("active_clients", count).Msg("client connected")
}

func (h *Hub) removeClient(c *client.Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
	}
	count := len(h.clients)
	h.clientsMu.Unlock()

	log.Info().Str("client_id", c.ID).Int("active_clients", count).Msg("client disconnected")
}

// broadcastUpdate delivers an update to all clients whose filter matches
func (h *Hub) broadcastUpdate(update models.BoardUpdate) {
	msg := models.ServerMessage{
		Type:      models.MessageTypeBoardUpdate,
		Payload:   update,
		Timestamp: time.Now(),
	}

	h.clientsMu.RLock()
	targets := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		if c.MatchesFilter(update) {
			targets = append(targets, c)
		}
	}
	h.clientsMu.RUnlock()

	sent := 0
	for _, c := range targets {
		if c.TrySend(msg) {
			sent++
		} else {
			// Slow client, disconnect to protect the hub
			log.Warn().Str("client_id", c.ID).Msg("send buffer full, disconnecting slow client")
			go h.Unregister(c)
		}
	}

	h.metricsMu.Lock()
	h.messagesSent += int64(sent)
	h.metricsMu.Unlock()
}

// shutdown closes all client connections
func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}

	log.Info().Msg("hub shut down")
}

func (h *Hub) reportMetrics() {
	metrics := h.GetMetrics()
	log.Info().
		Int64("active_clients", metrics["active_clients"]).
		Int64("total_connections", metrics["total_connections"]).
		Int64("messages_sent", metrics["messages_sent"]).
		Int64("messages_dropped", metrics["messages_dropped"]).
		Msg("hub metrics")
}
