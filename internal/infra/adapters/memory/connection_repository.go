package memory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vanshsehgal08/Lie-Hard/internal/application/constant"
	"github.com/vanshsehgal08/Lie-Hard/internal/application/metric"
)

// ConnectionRepository tracks live WebSocket connections per player.
type ConnectionRepository interface {
	Add(playerID string, conn *websocket.Conn)
	Remove(playerID string)

	Write(playerID string, payload any)
	WriteMany(playerIDs []string, payload any)
}

type safeWS struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

type connectionRepository struct {
	// conns holds map[player_id]*ws.conn
	conns map[string]*safeWS

	mu sync.RWMutex
}

func NewConnectionRepository() ConnectionRepository {
	return &connectionRepository{
		conns: make(map[string]*safeWS, 16),
	}
}

func (c *connectionRepository) Add(playerID string, conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conns[playerID] = &safeWS{conn: conn}

	metric.IncrementWSActiveConnections()
}

func (c *connectionRepository) Remove(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.conns[playerID]; exists {
		delete(c.conns, playerID)

		metric.DecrementWSActiveConnections()
	}
}

// Write sends one JSON payload to one player. Writes to players who
// already dropped are silently skipped.
func (c *connectionRepository) Write(playerID string, payload any) {
	safews, ok := c.getSafeWS(playerID)
	if !ok {
		return
	}

	safews.mu.Lock()
	defer safews.mu.Unlock()

	if err := safews.conn.WriteJSON(payload); err != nil {
		slog.Error(
			"write to websocket",
			slog.Any(constant.Error, err),
			slog.String(constant.PlayerID, playerID),
		)
	}
}

func (c *connectionRepository) WriteMany(playerIDs []string, payload any) {
	for _, id := range playerIDs {
		c.Write(id, payload)
	}
}

func (c *connectionRepository) getSafeWS(playerID string) (*safeWS, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	conn, ok := c.conns[playerID]
	return conn, ok
}
