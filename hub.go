package main

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"statusboard/internal/board"
	"statusboard/internal/metrics"
)

// client is a connected dashboard that receives view updates.
// The interface lets tests replace websocket connections with mocks.
type client interface {
	// Send delivers one JSON encoded view
	Send(data []byte) error
	// Close terminates the connection
	Close() error
}

// wsClient adapts a websocket connection to client.
type wsClient struct {
	conn *websocket.Conn
}

func (c *wsClient) Send(data []byte) error {
	return websocket.Message.Send(c.conn, string(data))
}

func (c *wsClient) Close() error {
	return c.conn.Close()
}

// jsonMarshal is a variable to allow mocking json.Marshal in tests
var jsonMarshal = json.Marshal

// Hub keeps the set of connected dashboards and pushes every new view to
// them.
type Hub struct {
	mu      sync.Mutex
	clients map[client]bool

	current func() board.View
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewHub returns an empty hub. current supplies the view sent to a client
// right after it connects.
func NewHub(current func() board.View, logger *zap.Logger, m *metrics.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[client]bool),
		current: current,
		logger:  logger,
		metrics: m,
	}
}

// Broadcast sends view to all connected clients.
// Clients that fail to receive it are closed and dropped.
func (h *Hub) Broadcast(view board.View) {
	h.mu.Lock()
	defer h.mu.Unlock()
	data, err := jsonMarshal(view)
	if err != nil {
		h.logger.Error("marshal view", zap.Error(err))
		return
	}
	for c := range h.clients {
		if err := c.Send(data); err != nil {
			h.logger.Debug("dropping client", zap.Error(err))
			c.Close()
			delete(h.clients, c)
		}
	}
	h.metrics.SetClients(len(h.clients))
}

// add registers c after sending it the current view, so a client never
// sees an older view after a newer one.
func (h *Hub) add(c client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current != nil {
		data, err := jsonMarshal(h.current())
		if err != nil {
			h.logger.Error("marshal view", zap.Error(err))
		} else if err := c.Send(data); err != nil {
			c.Close()
			return false
		}
	}
	h.clients[c] = true
	h.metrics.SetClients(len(h.clients))
	return true
}

func (h *Hub) remove(c client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		c.Close()
	}
	h.metrics.SetClients(len(h.clients))
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
	h.metrics.SetClients(0)
}

// ServeWS handles one websocket connection for its whole lifetime.
// Incoming messages are ignored; reading only detects the disconnect.
func (h *Hub) ServeWS(ws *websocket.Conn) {
	c := &wsClient{conn: ws}
	if !h.add(c) {
		return
	}
	defer h.remove(c)

	var msg string
	for {
		if err := websocket.Message.Receive(ws, &msg); err != nil {
			return
		}
	}
}
