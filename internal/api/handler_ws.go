package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ScanFeed handles GET /ws/scans?token=...: upgrades to a websocket that
// receives every accepted scan as a JSON event. Browsers cannot set an
// Authorization header on a websocket, so the credential travels as a query
// parameter and goes through the same verifier as the gate.
func (h *Handler) ScanFeed(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}
	if _, err := h.tokens.Verify(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	h.hub.Register(conn)

	// The feed is write-only; the read loop just waits for the peer to go
	// away.
	go func() {
		defer h.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
