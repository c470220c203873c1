package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"photoshare-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification,omitempty"`
	Message      string               `json:"message,omitempty"`
}

// NotificationHub manages WebSocket connections, one per user. It is the
// realtime delivery channel for notifications.
type NotificationHub struct {
	mu          sync.RWMutex
	connections map[int64]*websocket.Conn
}

// NewNotificationHub creates a new hub
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		connections: make(map[int64]*websocket.Conn),
	}
}

// Register registers a connection for a user, replacing any existing one
func (h *NotificationHub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Int64("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes the user's connection, but only when the mapped
// connection is the given one. A stale handler cleaning up after a
// reconnect must not tear down the replacement.
func (h *NotificationHub) Unregister(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok && existing == conn {
		existing.Close()
		delete(h.connections, userID)
		log.Info().Int64("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// SendToUser sends a message to a specific user
func (h *NotificationHub) SendToUser(userID int64, message WSMessage) error {
	h.mu.RLock()
	conn, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %d is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID, conn)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// IsOnline checks if a user has a live connection
func (h *NotificationHub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}
