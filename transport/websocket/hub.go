package websocket

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

// Hub tracks live connections by player id and delivers engine events to them.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[string]*client),
	}
}

// Send - queues the event for the player. Never blocks; unknown or closed recipients are skipped.
func (that *Hub) Send(playerID string, event *entity.Event) {
	that.mu.RLock()
	c, ok := that.clients[playerID]
	that.mu.RUnlock()

	if !ok {
		return
	}

	body, err := encodeEvent(event)
	if err != nil {
		that.logger.Error("failed to encode event", "type", event.Type, "error", err)
		return
	}

	// A client that cannot keep up is cut off; its session is torn down through Disconnect.
	if !c.enqueue(body) {
		that.logger.Warn("send buffer is full, closing slow client", "playerID", playerID, "type", event.Type)
		c.close()
	}
}

func (that *Hub) register(c *client) {
	that.mu.Lock()
	that.clients[c.playerID] = c
	that.mu.Unlock()
}

func (that *Hub) unregister(c *client) {
	that.mu.Lock()
	if that.clients[c.playerID] == c {
		delete(that.clients, c.playerID)
	}
	that.mu.Unlock()
}

func (that *Hub) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}
