package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Manager keeps track of connected live-dashboard clients.
type Manager struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn // clientID -> conn
}

func NewManager() *Manager {
	return &Manager{connections: make(map[string]*websocket.Conn)}
}

// Register registers a client connection, replacing any existing one.
func (m *Manager) Register(clientID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.connections[clientID]; ok && old != conn {
		// close old connection to avoid leaks
		_ = old.Close()
	}
	m.connections[clientID] = conn
}

// Unregister removes a client connection.
func (m *Manager) Unregister(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conn, ok := m.connections[clientID]; ok {
		_ = conn.Close()
		delete(m.connections, clientID)
	}
}

// Broadcast sends a text message to every connected client. Write
// failures drop the offending connection.
func (m *Manager) Broadcast(payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, conn := range m.connections {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			_ = conn.Close()
			delete(m.connections, id)
		}
	}
}

// Count returns the number of connected clients.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}
