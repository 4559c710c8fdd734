package realtime

import (
	"net/http"
	"strings"

	"studymate/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // tighten in prod
	},
}

// GatewayController registers the notification push channel. The
// handshake requires a bearer token in the `token` query parameter or the
// Authorization header; the connection is rejected before upgrade when
// the token is missing or invalid.
func GatewayController(router *gin.Engine, hub *Hub) {
	router.GET("/ws/notifications", func(c *gin.Context) {
		HandleConnection(c, hub)
	})
}

// bearerToken pulls the credential from the handshake request.
func bearerToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	header := c.Request.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
}

func HandleConnection(c *gin.Context, hub *Hub) {
	token := bearerToken(c)
	if token == "" {
		hub.log.Warnf("Socket rejected (no token) from %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	claims, err := middleware.ParseToken(token, "JWT_SECRET_KEY")
	if err != nil {
		hub.log.Warnf("Socket auth failed from %s: %v", c.ClientIP(), err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	userID, ok := middleware.UserIDFromClaims(claims)
	if !ok {
		hub.log.Warnf("Socket rejected (no userId in token) from %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid userId in token claims"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.log.Warnf("Socket upgrade failed for user %s: %v", userID, err)
		return
	}

	hub.register(userID, conn)
	hub.log.Infof("Socket connected -> user %s", userID)

	// The channel is push-only; the read loop just waits for the close.
	go func() {
		defer func() {
			hub.unregister(userID, conn)
			conn.Close()
			hub.log.Infof("Socket disconnected (user %s)", userID)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
