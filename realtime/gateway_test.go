package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func gatewayServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub(zap.NewNop().Sugar())
	router := gin.New()
	GatewayController(router, hub)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, hub
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/notifications"
}

func dial(t *testing.T, rawURL string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(rawURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGatewayRejectsMissingToken(t *testing.T) {
	server, _ := gatewayServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGatewayRejectsInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	server, _ := gatewayServer(t)

	bad := signToken(t, "wrong-secret", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()})
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server)+"?token="+bad, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGatewayDeliversToOwnerOnly(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	server, hub := gatewayServer(t)

	tokenA := signToken(t, "test-secret", jwt.MapClaims{"sub": "user-a", "exp": time.Now().Add(time.Hour).Unix()})
	tokenB := signToken(t, "test-secret", jwt.MapClaims{"sub": "user-b", "exp": time.Now().Add(time.Hour).Unix()})

	connA := dial(t, wsURL(server)+"?token="+tokenA)
	connB := dial(t, wsURL(server)+"?token="+tokenB)

	waitForConnections(t, hub, "user-a", 1)
	waitForConnections(t, hub, "user-b", 1)

	hub.EmitToUser("user-a", "notification:new", map[string]string{"id": "n-1"})

	require.NoError(t, connA.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := connA.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "notification:new", msg.Event)
	assert.Contains(t, string(msg.Data), `"n-1"`)

	// user-b must receive nothing.
	require.NoError(t, connB.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = connB.ReadMessage()
	assert.Error(t, err)
}

func TestGatewayAcceptsAuthorizationHeader(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	server, hub := gatewayServer(t)

	token := signToken(t, "test-secret", jwt.MapClaims{"userId": "user-1", "exp": time.Now().Add(time.Hour).Unix()})
	header := http.Header{"Authorization": []string{"Bearer " + token}}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(server), header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	waitForConnections(t, hub, "user-1", 1)
}

func TestEmitToEmptyHubIsNoop(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	hub.EmitToUser("ghost", "notification:new", map[string]string{"id": "n-1"})

	var nilHub *Hub
	nilHub.EmitToUser("ghost", "notification:new", nil)
}

func TestUnregisterOnDisconnect(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	server, hub := gatewayServer(t)

	token := signToken(t, "test-secret", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()})
	conn := dial(t, wsURL(server)+"?token="+token)
	waitForConnections(t, hub, "user-1", 1)

	conn.Close()
	waitForConnections(t, hub, "user-1", 0)
}

func waitForConnections(t *testing.T, hub *Hub, userID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ConnectionCount(userID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("user %s has %d connections, want %d", userID, hub.ConnectionCount(userID), want)
}
