package handlers

import (
	"net/http"

	"clairity-server/logger"
	"clairity-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler serves the live reading stream to dashboard clients.
type WSHandler struct {
	mgr *ws.Manager
}

func NewWSHandler(mgr *ws.Manager) *WSHandler {
	return &WSHandler{mgr: mgr}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleLiveWS upgrades to websocket and keeps the connection registered
// until the client goes away. Every ingested reading is broadcast to all
// registered connections.
// GET /ws/live
func (h *WSHandler) HandleLiveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	clientID := uuid.New().String()
	h.mgr.Register(clientID, conn)
	logger.L().Info("dashboard client connected", zap.String("client_id", clientID))

	defer func() {
		h.mgr.Unregister(clientID)
		logger.L().Info("dashboard client disconnected", zap.String("client_id", clientID))
	}()

	// Clients only listen; reads exist to detect the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
