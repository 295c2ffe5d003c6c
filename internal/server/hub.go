package server

import (
	"log"
	"sync"
)

// Conn is the write side of a websocket connection.
type Conn interface {
	WriteJSON(v interface{}) error
}

// Client serialises writes to one connection; websocket connections allow
// only one concurrent writer.
type Client struct {
	mu     sync.Mutex
	conn   Conn
	player string
}

// Send writes msg to the connection.
func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Hub tracks the connections watching each game.
type Hub struct {
	mu     sync.RWMutex
	games  map[string]map[*Client]struct{}
	logger *log.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		games:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

// Register adds conn to gameID's watchers.
func (h *Hub) Register(gameID, player string, conn Conn) *Client {
	c := &Client{conn: conn, player: player}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.games[gameID] == nil {
		h.games[gameID] = make(map[*Client]struct{})
	}
	h.games[gameID][c] = struct{}{}
	return c
}

// Unregister removes c from gameID's watchers.
func (h *Hub) Unregister(gameID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.games[gameID], c)
	if len(h.games[gameID]) == 0 {
		delete(h.games, gameID)
	}
}

// Count returns the number of connections watching gameID.
func (h *Hub) Count(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// Broadcast sends msg to every watcher of gameID.
func (h *Hub) Broadcast(gameID string, msg Message) {
	h.BroadcastExcept(gameID, nil, msg)
}

// BroadcastExcept sends msg to every watcher of gameID other than skip.
// Failed writes are logged; the reader loop of that connection cleans up.
func (h *Hub) BroadcastExcept(gameID string, skip *Client, msg Message) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.games[gameID]))
	for c := range h.games[gameID] {
		if c != skip {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.Send(msg); err != nil && h.logger != nil {
			h.logger.Printf("game %s: send to %s: %v", gameID, c.player, err)
		}
	}
}
