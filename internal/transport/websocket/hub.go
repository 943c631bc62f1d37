package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
)

// Hub - the set of live real-time connections. Every move of every game goes to all of them.
type Hub struct {
	logger *slog.Logger

	mu          sync.Mutex
	connections []*Connection
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "hub"),
	}
}

func (that *Hub) Register(conn *Connection) {
	that.mu.Lock()
	that.connections = append(that.connections, conn)
	that.mu.Unlock()

	that.logger.Info("connection registered", "connection", conn.ID)
}

// Notify - drops closed connections, then sends event to each remaining one.
// Delivery failures are logged per connection and never returned.
func (that *Hub) Notify(_ context.Context, event entity.MoveEvent) {
	log := that.logger.With("method", "Notify", "gameID", event.GameID)

	connections := that.prune()

	data, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to marshal move event", "error", err)
		return
	}

	for _, conn := range connections {
		if err = conn.Send(data); err != nil {
			log.Error("failed to send move event", "connection", conn.ID, "error", err)
		}
	}
}

// Len - number of connections kept after the last prune.
func (that *Hub) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.connections)
}

// Close - closes every connection, used on shutdown.
func (that *Hub) Close() {
	that.mu.Lock()
	connections := that.connections
	that.connections = nil
	that.mu.Unlock()

	for _, conn := range connections {
		conn.Close()
	}
}

func (that *Hub) prune() []*Connection {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.connections = lo.Filter(that.connections, func(conn *Connection, _ int) bool {
		return conn.IsLive()
	})

	return append([]*Connection(nil), that.connections...)
}
