package ws

import (
	"sync"
	"time"

	"chatline_backend/internal/logger"
	chat "chatline_backend/internal/services/chat"

	"github.com/gorilla/websocket"
)

// PresenceStore records online state as a side effect of connection
// lifecycle. The user repository satisfies it.
type PresenceStore interface {
	SetPresence(userID string, online bool, at time.Time) error
}

// Manager is the connection registry: at most one live connection per
// user. It implements the router's delivery gate.
type Manager struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	presence PresenceStore
}

func NewManager(presence PresenceStore) *Manager {
	return &Manager{
		clients:  make(map[string]*Client),
		presence: presence,
	}
}

// Register puts the client into the registry. If the user already has a
// live connection the old one is displaced: last connect wins.
func (m *Manager) Register(client *Client) {
	m.mu.Lock()
	if old, ok := m.clients[client.UserID]; ok {
		old.displaced = true
		close(old.Send)
		old.Conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "superseded by a new connection"),
			time.Now().Add(time.Second))
		old.Conn.Close()
	}
	m.clients[client.UserID] = client
	total := len(m.clients)
	m.mu.Unlock()

	m.setPresence(client.UserID, true)
	logger.Info("websocket client connected", "user_id", client.UserID, "total", total)
}

// Unregister removes the client if it is still the user's current
// connection. A displaced client unregistering must not evict its
// successor.
func (m *Manager) Unregister(client *Client) {
	m.mu.Lock()
	current, ok := m.clients[client.UserID]
	if !ok || current != client {
		m.mu.Unlock()
		return
	}
	if !client.displaced {
		close(client.Send)
		// Unblocks the read loop right away rather than at its deadline.
		client.Conn.Close()
	}
	delete(m.clients, client.UserID)
	total := len(m.clients)
	m.mu.Unlock()

	m.setPresence(client.UserID, false)
	logger.Info("websocket client disconnected", "user_id", client.UserID, "total", total)
}

func (m *Manager) setPresence(userID string, online bool) {
	if m.presence == nil {
		return
	}
	if err := m.presence.SetPresence(userID, online, time.Now()); err != nil {
		logger.WithError(err).Warn("failed to update presence", "user_id", userID)
	}
}

// Send pushes one event to the user's connection. Offline users are not
// an error; a full outbound buffer tears the connection down and the
// event is dropped, to be recovered from history.
func (m *Manager) Send(userID string, event chat.Event) (bool, error) {
	m.mu.RLock()
	client, ok := m.clients[userID]
	if !ok {
		m.mu.RUnlock()
		return false, nil
	}

	select {
	case client.Send <- event:
		m.mu.RUnlock()
		return true, nil
	default:
		m.mu.RUnlock()
		logger.Warn("outbound buffer full, dropping client", "user_id", userID)
		go m.Unregister(client)
		return false, nil
	}
}

// IsConnected reports whether the user has a live connection.
func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// ClientCount returns the number of live connections.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
