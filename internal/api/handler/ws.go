package handler

import (
	"net/http"

	"ethereal/backend/internal/api/middleware"
	"ethereal/backend/internal/authhub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWebSocket handles GET /ws/auth: the caller receives its own auth-state changes.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return
	}

	client := authhub.NewWebSocketClient(h.Hub, conn, claims.UserID)
	if !h.Hub.Register(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		conn.Close()
		return
	}
	client.Run()
}

// upgradeRequired is returned to plain HTTP callers of the websocket route.
func upgradeRequired(c *gin.Context) bool {
	if websocket.IsWebSocketUpgrade(c.Request) {
		return false
	}
	c.AbortWithStatusJSON(http.StatusUpgradeRequired, gin.H{"error": "websocket_required"})
	return true
}
