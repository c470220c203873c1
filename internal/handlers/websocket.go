package handlers

import (
	"net/http"

	"photoshare-backend/internal/middleware"
	"photoshare-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cookie auth runs before the upgrade, so cross-origin
		// connections are acceptable here.
		return true
	},
}

// WebSocketHandler upgrades authenticated requests into notification
// streams
type WebSocketHandler struct {
	hub *services.NotificationHub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.NotificationHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Serve handles GET /ws. The connection is held open and receives
// notification messages as they are created; client frames are read and
// discarded to detect disconnects.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sess.UserID).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(sess.UserID, conn)
	defer h.hub.Unregister(sess.UserID, conn)

	welcome := services.WSMessage{Type: "connected", Message: "Connected to notification stream"}
	if err := h.hub.SendToUser(sess.UserID, welcome); err != nil {
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Int64("user_id", sess.UserID).Msg("WebSocket closed unexpectedly")
			}
			return
		}
	}
}
