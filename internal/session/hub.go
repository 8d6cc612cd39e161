package session

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/inamate/vecedit/backend-go/internal/engine"
)

const defaultMaxMsgSize = 1 << 20

// Hub tracks the live sessions. Each session owns its engine; the hub
// never touches engines, it only registers, counts and closes clients.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client // sessionID -> client
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}

	opts       engine.Options
	maxMsgSize int64
}

func NewHub(opts engine.Options, maxMsgSize int64) *Hub {
	if maxMsgSize <= 0 {
		maxMsgSize = defaultMaxMsgSize
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		opts:       opts,
		maxMsgSize: maxMsgSize,
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			h.closeAll()
			return
		}
	}
}

// Stop closes every session and ends Run.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.SessionID] = client
	h.mu.Unlock()

	slog.Info("session started", "session", client.SessionID, "client", client.ClientID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.SessionID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.SessionID)
	close(client.send)
	h.mu.Unlock()

	slog.Info("session ended", "session", client.SessionID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		// The read loop may still be sending; closing the connection ends
		// both pumps, so the send channel is left to them.
		if c.conn != nil {
			c.conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
		delete(h.clients, id)
	}
	slog.Info("all sessions closed")
}
